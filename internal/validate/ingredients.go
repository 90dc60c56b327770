package validate

import "fmt"

// ingredientRules are applied to every element of an ingredients array.
// Amount must be strictly positive; abv, when present, is a percentage.
var ingredientRules = []Rule{
	{Field: "name", Kind: String, Required: true, Trimmed: true},
	{Field: "measurementUnit", Kind: String, Required: true, Trimmed: true},
	{Field: "amount", Kind: Number, Required: true, GreaterThan: Bound(0)},
	{Field: "abv", Kind: Number, Min: Bound(0), Max: Bound(100)},
}

// Ingredients validates every element of a raw ingredients array before
// any element is accepted. v must already have passed the Array (and
// presence) checks for the enclosing field.
func Ingredients(v any) *Error {
	list, ok := v.([]any)
	if !ok {
		return &Error{Code: CodeIncorrectDataType, Field: "ingredients"}
	}
	for i, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return &Error{Code: CodeIncorrectDataType, Field: fmt.Sprintf("ingredients[%d]", i)}
		}
		if err := Object(obj, ingredientRules); err != nil {
			return &Error{Code: err.Code, Field: fmt.Sprintf("ingredients[%d].%s", i, err.Field)}
		}
	}
	return nil
}
