package obo

import (
	"fmt"
	"strings"

	"github.com/c360/semvocab/errors"
)

// Synonym is a parsed synonym tag: the quoted text, the scope keywords that
// follow it, and the raw reference list between brackets.
type Synonym struct {
	Text       string
	Scopes     []string
	References string
}

type synonymState int

const (
	synStart synonymState = iota
	synQuoteOpen
	synQuoteClose
	synScope
	synReferences
	synTrailing
)

// ParseSynonym parses the synonym tag sub-grammar:
//
//	"text" SCOPE... [references] trailing
//
// The scan is a character state machine rather than a split on spaces because
// the quoted text may itself contain every delimiter. A quote appearing after
// the quoted text closes, or bad spacing before the scope keywords, is a
// syntax error.
func ParseSynonym(text string) (Synonym, error) {
	state := synStart
	var quoted, scope strings.Builder
	var references strings.Builder
	var scopes []string

	for _, c := range text {
		if c == '"' {
			switch state {
			case synStart:
				state = synQuoteOpen
			case synQuoteOpen:
				state = synQuoteClose
			case synTrailing:
			default:
				return Synonym{}, errors.WrapInvalid(
					fmt.Errorf("%w: quote after quoted text in synonym %q", errors.ErrSyntax, text),
					"obo", "ParseSynonym", "scan synonym")
			}
			continue
		}
		switch state {
		case synQuoteOpen:
			quoted.WriteRune(c)
		case synQuoteClose:
			if c != ' ' {
				return Synonym{}, errors.WrapInvalid(
					fmt.Errorf("%w: expected space before synonym scope in %q", errors.ErrSyntax, text),
					"obo", "ParseSynonym", "scan synonym")
			}
			state = synScope
		case synScope:
			switch c {
			case ' ':
				if scope.Len() > 0 {
					scopes = append(scopes, scope.String())
					scope.Reset()
				}
			case '[':
				if scope.Len() > 0 {
					scopes = append(scopes, scope.String())
					scope.Reset()
				}
				state = synReferences
			default:
				scope.WriteRune(c)
			}
		case synReferences:
			if c == ']' {
				state = synTrailing
			} else {
				references.WriteRune(c)
			}
		case synTrailing, synStart:
		}
	}
	if scope.Len() > 0 {
		scopes = append(scopes, scope.String())
	}

	return Synonym{
		Text:       quoted.String(),
		Scopes:     scopes,
		References: references.String(),
	}, nil
}
