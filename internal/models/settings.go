package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
)

// PaymentMethod describes one way a buyer can transfer money.
type PaymentMethod struct {
	Name    string `bson:"name" json:"name"`
	Account string `bson:"account" json:"account"`
	Icon    string `bson:"icon" json:"icon"`
	Color   string `bson:"color" json:"color"`
}

// Settings is the single site configuration document. Every recognized key
// has a typed field; keys the backend does not know about are preserved in
// Extra and passed through opaquely.
type Settings struct {
	HeroTitle      string
	HeroDesc       string
	Whatsapp       string
	PrimaryColor   string
	PaymentMethods map[string]PaymentMethod
	Extra          map[string]any
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.doc())
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = MergeSettings(Settings{}, raw)
	return nil
}

// Doc flattens the settings into the document shape the remote store holds,
// with unknown keys alongside the typed ones.
func (s Settings) Doc() map[string]any {
	return s.doc()
}

// doc never emits a null value: a nil payment-methods map and nil extras
// are omitted, so a partial settings body can't plant nulls in the stored
// document.
func (s Settings) doc() map[string]any {
	out := map[string]any{
		"heroTitle":    s.HeroTitle,
		"heroDesc":     s.HeroDesc,
		"whatsapp":     s.Whatsapp,
		"primaryColor": s.PrimaryColor,
	}
	if s.PaymentMethods != nil {
		out["paymentMethods"] = s.PaymentMethods
	}
	for key, value := range s.Extra {
		if value == nil {
			continue
		}
		if _, known := out[key]; !known {
			out[key] = value
		}
	}
	return out
}

// MergeSettings lays raw remote values over the defaults, one top-level key
// at a time: present keys win, absent keys keep the default, unrecognized
// keys land in Extra.
func MergeSettings(defaults Settings, raw map[string]any) Settings {
	merged := defaults
	if len(raw) == 0 {
		return merged
	}

	if len(defaults.Extra) > 0 {
		merged.Extra = make(map[string]any, len(defaults.Extra))
		for key, value := range defaults.Extra {
			merged.Extra[key] = value
		}
	}

	for key, value := range raw {
		switch key {
		case "heroTitle":
			if text, ok := value.(string); ok {
				merged.HeroTitle = text
			}
		case "heroDesc":
			if text, ok := value.(string); ok {
				merged.HeroDesc = text
			}
		case "whatsapp":
			if text, ok := value.(string); ok {
				merged.Whatsapp = text
			}
		case "primaryColor":
			if text, ok := value.(string); ok {
				merged.PrimaryColor = text
			}
		case "paymentMethods":
			if methods, ok := decodePaymentMethods(value); ok {
				merged.PaymentMethods = methods
			}
		default:
			if merged.Extra == nil {
				merged.Extra = make(map[string]any)
			}
			merged.Extra[key] = value
		}
	}
	return merged
}

// decodePaymentMethods tolerates both JSON maps and BSON documents by
// round-tripping the value through the BSON codec.
func decodePaymentMethods(value any) (map[string]PaymentMethod, bool) {
	data, err := bson.Marshal(bson.M{"v": value})
	if err != nil {
		return nil, false
	}

	var wrapper struct {
		V map[string]PaymentMethod `bson:"v"`
	}
	if err := bson.Unmarshal(data, &wrapper); err != nil {
		return nil, false
	}
	if wrapper.V == nil {
		return nil, false
	}
	return wrapper.V, true
}
