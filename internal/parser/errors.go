package parser

import (
	"fmt"
	"strconv"

	"github.com/roach88/perspective/internal/queryir"
)

// syntaxError creates a SYNTAX IllegalQueryError at a byte offset.
func syntaxError(pos int, format string, args ...any) *queryir.IllegalQueryError {
	msg := fmt.Sprintf(format, args...)
	return queryir.NewIllegalQuery(queryir.ErrCodeSyntax, "%s at offset %d", msg, pos).
		WithDetail("position", strconv.Itoa(pos))
}

func unexpected(tok Token, want string) *queryir.IllegalQueryError {
	return syntaxError(tok.Pos, "expected %s, found %s", want, tok)
}
