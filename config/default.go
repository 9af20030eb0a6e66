package config

import "reflect"

var configDefaults = object{
	"app": object{
		"devMode": &Entry{false, []any{}, reflect.Bool, false, false},
	},
	"log": object{
		"level": &Entry{"info", []any{"debug", "info", "warn", "error"}, reflect.String, false, false},
	},
	"negotiation": object{
		"available":         &Entry{[]string{"text/html", "application/json"}, []any{}, reflect.String, true, true},
		"rejectZeroQuality": &Entry{true, []any{}, reflect.Bool, false, false},
	},
}
