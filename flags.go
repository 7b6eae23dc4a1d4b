package jetmet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FloatArrayFlags collects a repeatable float flag. The first Set call
// replaces the default values.
type FloatArrayFlags struct {
	Array   []float64
	beenSet bool
}

func (f *FloatArrayFlags) Set(valueStr string) error {
	var values []float64
	for _, field := range strings.Split(valueStr, ",") {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return err
		}
		values = append(values, value)
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, values...)
	return nil
}

func (f *FloatArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}

func (f *FloatArrayFlags) Type() string {
	return "floats"
}

// Choice is a string flag restricted to a fixed set of values.
type Choice struct {
	Value   string
	Choices []string
}

func NewChoice(def string, choices ...string) *Choice {
	return &Choice{Value: def, Choices: choices}
}

func (c *Choice) Set(valueStr string) error {
	for _, choice := range c.Choices {
		if valueStr == choice {
			c.Value = valueStr
			return nil
		}
	}
	return errors.Errorf("invalid choice %q (choose from %s)", valueStr, strings.Join(c.Choices, ", "))
}

func (c *Choice) String() string {
	return c.Value
}

func (c *Choice) Type() string {
	return "string"
}
