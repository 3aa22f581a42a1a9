package command

import (
	"context"
	"io"
	"strconv"
	"strings"
)

// Field defines a CLI input field.
type Field struct {
	Name     string
	Prompt   string
	Required bool
}

// Command binds a "<service> <action>" pair to a handler.
type Command struct {
	Service string
	Action  string
	Summary string
	Fields  []Field
	Run     func(ctx context.Context, params Params, out io.Writer) error
}

// Key returns the registry key for the command.
func (c Command) Key() string {
	return c.Service + " " + c.Action
}

// Params holds parsed input params.
type Params map[string]string

func (p Params) Get(key string) string {
	return p[strings.ToLower(key)]
}

func (p Params) Set(key, value string) {
	p[strings.ToLower(key)] = value
}

func (p Params) Has(key string) bool {
	_, ok := p[strings.ToLower(key)]
	return ok
}

func ParseInt(value string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	return int(n), err
}
