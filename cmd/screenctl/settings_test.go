package main

import "testing"

func TestParseSettingValueParsesJSONScalars(t *testing.T) {
	cases := map[string]interface{}{
		"true":           true,
		"3456":           float64(3456),
		"\"quoted\"":     "quoted",
		"plain-string":   "plain-string",
		"http://foo/bar": "http://foo/bar",
	}
	for input, want := range cases {
		got := parseSettingValue(input)
		if got != want {
			t.Fatalf("parseSettingValue(%q) = %#v, want %#v", input, got, want)
		}
	}
}
