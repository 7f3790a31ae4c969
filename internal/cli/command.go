package cli

import "strings"

// Kind classifies the intent of a parsed input line.
type Kind int

const (
	KindInvalid Kind = iota
	KindList
	KindPut
	KindQuery
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindPut:
		return "put"
	case KindQuery:
		return "query"
	case KindDelete:
		return "delete"
	default:
		return "invalid"
	}
}

// Command is a single parsed input line. It is built per line, consumed by
// one Dispatch call, and discarded.
type Command struct {
	Kind Kind
	// Args holds all whitespace-separated tokens, command word included.
	Args []string
}

// Parse turns a raw input line into a Command. The line is trimmed and split
// on runs of whitespace; only the first letter of the first token decides the
// kind, so the rest of the command word is free-form. Command letters are
// lowercase; uppercase input is Invalid. An empty line is Invalid too, never
// an error.
func Parse(line string) Command {
	tokens := strings.Fields(strings.TrimSpace(line))
	if len(tokens) == 0 {
		return Command{Kind: KindInvalid}
	}

	kind := KindInvalid
	switch tokens[0][0] {
	case 'l':
		kind = KindList
	case 'p':
		kind = KindPut
	case 'q':
		kind = KindQuery
	case 'd':
		kind = KindDelete
	}

	return Command{Kind: kind, Args: tokens}
}
