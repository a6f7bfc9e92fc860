package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/transform"
)

// Diagnostics flattens every diagnostic of a transpiled unit into LSP form:
// unit-level warnings first, then each contract's errors before its
// warnings, in transform order.
func Diagnostics(unit *transform.UnitResult) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	for _, w := range unit.Warnings {
		out = append(out, toDiagnostic(w))
	}
	for _, c := range unit.Contracts {
		for _, e := range c.Errors {
			out = append(out, toDiagnostic(e))
		}
		for _, w := range c.Warnings {
			out = append(out, toDiagnostic(w))
		}
	}
	return out
}

// toDiagnostic converts one transform diagnostic. Positions in the dump are
// 1-based; LSP wants 0-based. Suggestions and notes have no structured seat
// in a diagnostic, so they ride along in the message.
func toDiagnostic(e errors.TransformError) protocol.Diagnostic {
	var line, char uint32
	if e.Position.Line > 0 {
		line = uint32(e.Position.Line - 1)
	}
	if e.Position.Column > 0 {
		char = uint32(e.Position.Column - 1)
	}
	length := e.Length
	if length <= 0 {
		length = 1
	}

	severity := protocol.DiagnosticSeverityWarning
	if e.IsError() {
		severity = protocol.DiagnosticSeverityError
	}

	var msg strings.Builder
	msg.WriteString(e.Message)
	for _, s := range e.Suggestions {
		msg.WriteString("\nhelp: ")
		msg.WriteString(s.Message)
	}
	for _, n := range e.Notes {
		msg.WriteString("\nnote: ")
		msg.WriteString(n)
	}
	if e.HelpText != "" {
		msg.WriteString("\nhelp: ")
		msg.WriteString(e.HelpText)
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: char},
			End:   protocol.Position{Line: line, Character: char + uint32(length)},
		},
		Severity: ptrSeverity(severity),
		Code:     &protocol.IntegerOrString{Value: e.Code},
		Source:   ptrString(serverName),
		Message:  msg.String(),
	}
}

// decodeFailure surfaces an unreadable AST dump as a single diagnostic
// pinned to the document head.
func decodeFailure(err error) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString(serverName),
		Message:  "source unit does not decode: " + err.Error(),
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
