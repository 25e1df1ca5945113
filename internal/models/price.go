package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// QuoteLabel is the sentinel stored for packages whose price is settled
// per order rather than fixed.
const QuoteLabel = "حسب الطلب"

// Price is either a fixed amount in currency units or the quote-on-request
// sentinel carried by custom packages. It round-trips documents that store
// the price as a number as well as legacy documents storing the sentinel
// string.
type Price struct {
	Amount float64
	Quote  bool
	Label  string
}

func FixedPrice(amount float64) Price {
	return Price{Amount: amount}
}

func QuotePrice() Price {
	return Price{Quote: true, Label: QuoteLabel}
}

// Numeric reports the amount and whether the price is a real number.
// Quote-priced entries contribute nothing to totals.
func (p Price) Numeric() (float64, bool) {
	if p.Quote {
		return 0, false
	}
	return p.Amount, true
}

func (p Price) String() string {
	if p.Quote {
		return p.Label
	}
	return strconv.FormatFloat(p.Amount, 'f', -1, 64)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.Quote {
		return json.Marshal(p.Label)
	}
	return json.Marshal(p.Amount)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var amount float64
	if err := json.Unmarshal(data, &amount); err == nil {
		*p = Price{Amount: amount}
		return nil
	}

	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("price must be a number or a string: %s", data)
	}
	*p = Price{Quote: true, Label: label}
	return nil
}

// UnmarshalBSONValue accepts numeric and string BSON types, allowing
// documents written by older clients to be decoded without failing the
// entire request.
func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*p = Price{}
		return nil
	case bsontype.Double:
		var value float64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*p = Price{Amount: value}
		return nil
	case bsontype.Int32:
		var value int32
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*p = Price{Amount: float64(value)}
		return nil
	case bsontype.Int64:
		var value int64
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*p = Price{Amount: float64(value)}
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*p = Price{Quote: true, Label: value}
		return nil
	default:
		return fmt.Errorf("cannot decode %s into Price", t)
	}
}

// MarshalBSONValue stores fixed prices as doubles and quote prices as the
// sentinel string, matching what the storefront documents always held.
func (p Price) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if p.Quote {
		return bson.MarshalValue(p.Label)
	}
	return bson.MarshalValue(p.Amount)
}
