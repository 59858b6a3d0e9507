package structured

import (
	"fmt"

	"github.com/hpungsan/logfile/internal/errors"
)

// Kind identifies a Context variant. The short tags are the ones accepted by
// ParseKind.
type Kind string

const (
	KindVariable     Kind = "V"
	KindFunctionCall Kind = "FC"
	KindIf           Kind = "IF"
	KindElseIf       Kind = "ELIF"
	KindElse         Kind = "ELSE"
	KindReturn       Kind = "R"
	KindLoops        Kind = "LOOPS"
)

// ParseKind maps a tag to its Kind. Tags are matched exactly; anything outside
// V, FC, IF, ELIF, ELSE, R fails with INVALID_KIND.
func ParseKind(tag string) (Kind, error) {
	switch k := Kind(tag); k {
	case KindVariable, KindFunctionCall, KindIf, KindElseIf, KindElse, KindReturn:
		return k, nil
	}
	return "", errors.NewInvalidKind(tag)
}

// Context is what happened at a trace point. The set of implementations is
// closed to this package.
type Context interface {
	Kind() Kind
	context()
}

// Variable records an assignment.
type Variable struct {
	Name  string
	Value string
}

// FunctionCall records a call and its rendered parameter list.
type FunctionCall struct {
	Name       string
	Parameters string
}

// IfStatement records an if branch taken.
type IfStatement struct {
	Condition string
}

// ElseIfStatement records an else-if branch taken.
type ElseIfStatement struct {
	Condition string
}

// ElseStatement records an else branch taken.
type ElseStatement struct{}

// ReturnStatement records a return value.
type ReturnStatement struct {
	Value string
}

// Loops marks a loop. It carries no payload.
type Loops struct{}

func (Variable) Kind() Kind        { return KindVariable }
func (FunctionCall) Kind() Kind    { return KindFunctionCall }
func (IfStatement) Kind() Kind     { return KindIf }
func (ElseIfStatement) Kind() Kind { return KindElseIf }
func (ElseStatement) Kind() Kind   { return KindElse }
func (ReturnStatement) Kind() Kind { return KindReturn }
func (Loops) Kind() Kind           { return KindLoops }

func (Variable) context()        {}
func (FunctionCall) context()    {}
func (IfStatement) context()     {}
func (ElseIfStatement) context() {}
func (ElseStatement) context()   {}
func (ReturnStatement) context() {}
func (Loops) context()           {}

func (v Variable) String() string        { return v.Name + " = " + v.Value }
func (c FunctionCall) String() string    { return fmt.Sprintf("call %s(%s)", c.Name, c.Parameters) }
func (s IfStatement) String() string     { return "if " + s.Condition }
func (s ElseIfStatement) String() string { return "else if " + s.Condition }
func (ElseStatement) String() string     { return "else" }
func (s ReturnStatement) String() string { return "return " + s.Value }
func (Loops) String() string             { return "Loops()" }

// FromTag builds the Context selected by tag. name is used by V and FC; extra
// is the value, parameters or condition. ELSE ignores both.
func FromTag(name, extra, tag string) (Context, error) {
	kind, err := ParseKind(tag)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindVariable:
		return Variable{Name: name, Value: extra}, nil
	case KindFunctionCall:
		return FunctionCall{Name: name, Parameters: extra}, nil
	case KindIf:
		return IfStatement{Condition: extra}, nil
	case KindElseIf:
		return ElseIfStatement{Condition: extra}, nil
	case KindElse:
		return ElseStatement{}, nil
	case KindReturn:
		return ReturnStatement{Value: extra}, nil
	}
	return nil, errors.NewInvalidKind(tag)
}

// RenderContext returns the text for c. A nil Context, or one not defined in
// this package, fails with INVALID_KIND.
func RenderContext(c Context) (string, error) {
	switch v := c.(type) {
	case Variable:
		return v.String(), nil
	case FunctionCall:
		return v.String(), nil
	case IfStatement:
		return v.String(), nil
	case ElseIfStatement:
		return v.String(), nil
	case ElseStatement:
		return v.String(), nil
	case ReturnStatement:
		return v.String(), nil
	case Loops:
		return v.String(), nil
	case nil:
		return "", errors.NewInvalidKind("<nil>")
	}
	return "", errors.NewInvalidKind(fmt.Sprintf("%T", c))
}
