package config

import (
	"reflect"

	"gopkg.in/yaml.v3"
)

// Redacted is written in place of secret values.
const Redacted = "********"

var secretKeys = map[string]struct{}{
	"token":      {},
	"api_key":    {},
	"password":   {},
	"access_key": {},
	"secret_key": {},
}

// Dump renders cfg as YAML keyed like the config file. Secrets are replaced
// with Redacted unless reveal is set; empty secrets stay empty.
func Dump(cfg *Config, reveal bool) ([]byte, error) {
	return yaml.Marshal(toMap(reflect.ValueOf(*cfg), reveal))
}

func toMap(v reflect.Value, reveal bool) map[string]any {
	t := v.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		field := v.Field(i)
		if field.Kind() == reflect.Struct {
			out[tag] = toMap(field, reveal)
			continue
		}

		value := field.Interface()
		if _, secret := secretKeys[tag]; secret && !reveal && !field.IsZero() {
			value = Redacted
		}
		out[tag] = value
	}
	return out
}
