package config

import (
	"reflect"
	"sort"
	"strings"
)

// SettingKeys returns the JSON names of every settings.json field, sorted
func SettingKeys() []string {
	t := reflect.TypeOf(Settings{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys
}

// GetSettingsExample uses reflection to generate example settings.
// It stays in sync when new fields are added to Settings.
func GetSettingsExample() map[string]any {
	t := reflect.TypeOf(Settings{})
	example := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := jsonName(field)
		if name == "" {
			continue
		}
		example[name] = exampleValue(field.Type, name)
	}
	return example
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func exampleValue(t reflect.Type, name string) any {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return true
	case reflect.Int:
		switch name {
		case "auth_timeout_seconds":
			return int(DefaultAuthTimeout.Seconds())
		case "idle_timeout_seconds":
			return int(DefaultIdleTimeout.Seconds())
		case "max_log_files":
			return 1000
		}
		return 10
	case reflect.String:
		switch name {
		case "known_hosts":
			return "~/.ssh/known_hosts"
		case "worker_path":
			return "/usr/local/bin/ferry"
		}
		return "example"
	}
	return nil
}
