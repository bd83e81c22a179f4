package refsfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

type TokenOutput struct {
	Kind  string       `json:"kind"`
	Text  string       `json:"text,omitempty"`
	Range source.Range `json:"range"`
	Error string       `json:"error,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", tok.Pos.Line, tok.Pos.Col, tok.End.Line, tok.End.Col)
		if tok.Diag != nil {
			fmt.Fprintf(w, " (%s: %s)", tok.Diag.Code.ID(), tok.Diag.Message)
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Range: source.Range{Start: tok.Pos, End: tok.End},
		}
		if tok.Diag != nil {
			out.Error = tok.Diag.Message
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
