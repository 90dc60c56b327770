package validate

import (
	"encoding/json"
	"strings"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return body
}

func TestObject_FirstFailureWins(t *testing.T) {
	rules := []Rule{
		{Field: "username", Kind: String, Required: true, Trimmed: true},
		{Field: "password", Kind: String, Required: true, Min: Bound(10), Max: Bound(72)},
	}

	tests := []struct {
		name      string
		body      string
		wantCode  Code
		wantField string
	}{
		{"all missing reports first rule", `{}`, CodeMissingField, "username"},
		{"empty string is missing", `{"username":"","password":"longenough123"}`, CodeMissingField, "username"},
		{"null is missing", `{"username":null,"password":"longenough123"}`, CodeMissingField, "username"},
		{"wrong type", `{"username":42,"password":"longenough123"}`, CodeIncorrectDataType, "username"},
		{"untrimmed", `{"username":" alice","password":"longenough123"}`, CodeUntrimmedString, "username"},
		{"password too short", `{"username":"alice","password":"short"}`, CodeInvalidFieldSize, "password"},
		{"password too long", `{"username":"alice","password":"` + strings.Repeat("a", 73) + `"}`, CodeInvalidFieldSize, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Object(decode(t, tt.body), rules)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Code != tt.wantCode || err.Field != tt.wantField {
				t.Errorf("got %s/%s, want %s/%s", err.Code, err.Field, tt.wantCode, tt.wantField)
			}
		})
	}

	if err := Object(decode(t, `{"username":"alice","password":"longenough123"}`), rules); err != nil {
		t.Errorf("valid body rejected: %v", err)
	}
}

func TestObject_OptionalFields(t *testing.T) {
	rules := []Rule{
		{Field: "email", Kind: String, Trimmed: true},
	}

	if err := Object(decode(t, `{}`), rules); err != nil {
		t.Errorf("absent optional field rejected: %v", err)
	}
	if err := Object(decode(t, `{"email":"a@b.c"}`), rules); err != nil {
		t.Errorf("valid optional field rejected: %v", err)
	}
	err := Object(decode(t, `{"email":" a@b.c "}`), rules)
	if err == nil || err.Code != CodeUntrimmedString {
		t.Errorf("untrimmed optional field: got %v, want UntrimmedString", err)
	}
	err = Object(decode(t, `{"email":7}`), rules)
	if err == nil || err.Code != CodeIncorrectDataType {
		t.Errorf("mistyped optional field: got %v, want IncorrectDataType", err)
	}
}

func TestObject_IDField(t *testing.T) {
	rules := []Rule{{Field: "targetId", Kind: ID, Required: true}}

	if err := Object(decode(t, `{"targetId":"12"}`), rules); err != nil {
		t.Errorf("string id rejected: %v", err)
	}
	if err := Object(decode(t, `{"targetId":12}`), rules); err != nil {
		t.Errorf("numeric id rejected: %v", err)
	}

	for _, body := range []string{
		`{"targetId":"abc"}`,
		`{"targetId":"-4"}`,
		`{"targetId":0}`,
		`{"targetId":1.5}`,
		`{"targetId":[1]}`,
	} {
		err := Object(decode(t, body), rules)
		if err == nil || err.Code != CodeInvalidObjectID {
			t.Errorf("%s: got %v, want InvalidObjectId", body, err)
		}
	}

	err := Object(decode(t, `{}`), rules)
	if err == nil || err.Code != CodeMissingField {
		t.Errorf("absent id: got %v, want MissingField", err)
	}
}

func TestIngredients(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantCode Code
	}{
		{"valid", `[{"name":"Gin","measurementUnit":"part","amount":1}]`, ""},
		{"valid with abv", `[{"name":"Gin","measurementUnit":"part","amount":1,"abv":40}]`, ""},
		{"missing name", `[{"measurementUnit":"part","amount":1}]`, CodeMissingField},
		{"untrimmed unit", `[{"name":"Gin","measurementUnit":" part","amount":1}]`, CodeUntrimmedString},
		{"zero amount", `[{"name":"Gin","measurementUnit":"part","amount":0}]`, CodeInvalidFieldSize},
		{"negative amount", `[{"name":"Gin","measurementUnit":"part","amount":-2}]`, CodeInvalidFieldSize},
		{"abv over 100", `[{"name":"Gin","measurementUnit":"part","amount":1,"abv":140}]`, CodeInvalidFieldSize},
		{"abv not a number", `[{"name":"Gin","measurementUnit":"part","amount":1,"abv":"40"}]`, CodeIncorrectDataType},
		{"element not an object", `["gin"]`, CodeIncorrectDataType},
		{"second element bad", `[{"name":"Gin","measurementUnit":"part","amount":1},{"name":"Tonic","measurementUnit":"part","amount":0}]`, CodeInvalidFieldSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			if err := json.Unmarshal([]byte(tt.raw), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			err := Ingredients(v)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("valid ingredients rejected: %v", err)
				}
				return
			}
			if err == nil || err.Code != tt.wantCode {
				t.Errorf("got %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Errorf("ParseID(42): got %d, %v", id, err)
	}
	for _, s := range []string{"", "abc", "-1", "0", "1.5"} {
		if _, err := ParseID(s); err == nil {
			t.Errorf("ParseID(%q): expected error", s)
		}
	}
}
