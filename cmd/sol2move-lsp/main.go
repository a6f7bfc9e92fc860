// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/lsp"
)

const lsName = "sol2move"

var handler protocol.Handler

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	h := lsp.NewHandler(config.DefaultOptions())

	handler = protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		SetTrace:              h.SetTrace,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidClose:  h.TextDocumentDidClose,
		TextDocumentDidChange: h.TextDocumentDidChange,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting sol2move LSP server...")

	// The server speaks the protocol over standard input/output, the
	// transport editors expect.
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting sol2move LSP server:", err)
		os.Exit(1)
	}
}
