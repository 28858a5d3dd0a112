// Package env reads typed configuration values from the process environment.
package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func lookup[T any](key string, def T, parse func(string) (T, error)) (T, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func String(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func Bool(key string, def bool) (bool, error) {
	return lookup(key, def, strconv.ParseBool)
}

func Int(key string, def int) (int, error) {
	return lookup(key, def, strconv.Atoi)
}

func Duration(key string, def time.Duration) (time.Duration, error) {
	return lookup(key, def, time.ParseDuration)
}

// List splits a comma separated value, dropping empty items.
// An unset or blank variable yields def.
func List(key string, def []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	out := make([]string, 0, strings.Count(raw, ",")+1)
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
