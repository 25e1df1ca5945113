package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const (
	CategoryFood   = "food"
	CategoryGifts  = "gifts"
	CategoryCustom = "custom"
)

// FlexID is the canonical string form of a document identifier. Legacy
// payloads carry numeric package ids; they are stringified once at the
// boundary so the rest of the system only ever compares strings.
type FlexID string

func (id FlexID) String() string { return string(id) }

func (id *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %s", data)
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *FlexID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*id = ""
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*id = FlexID(value)
		return nil
	case bsontype.Int32:
		var value int32
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*id = FlexID(strconv.FormatInt(int64(value), 10))
		return nil
	case bsontype.Int64:
		var value int64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*id = FlexID(strconv.FormatInt(value, 10))
		return nil
	case bsontype.Double:
		var value float64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*id = FlexID(strconv.FormatInt(int64(value), 10))
		return nil
	default:
		return fmt.Errorf("cannot decode %s into FlexID", t)
	}
}

func (id FlexID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(id))
}

// Package is a purchasable catalog item.
type Package struct {
	ID          FlexID `bson:"_id,omitempty" json:"id"`
	Title       string `bson:"title" json:"title"`
	Category    string `bson:"category" json:"category"`
	Price       Price  `bson:"price" json:"price"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
}

// IsCustom reports whether the package price is settled per order.
func (p Package) IsCustom() bool {
	return p.Category == CategoryCustom
}
