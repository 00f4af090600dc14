// Command shaderls runs the shading-language server, speaking the LSP
// base protocol over stdio or an optional TCP socket, with a small
// language registry wiring each supported grammar into the server.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	tree_sitter_glsl "github.com/tree-sitter-grammars/tree-sitter-glsl"
	tree_sitter_hlsl "github.com/tree-sitter-grammars/tree-sitter-hlsl"

	"github.com/shaderlang/shaderls/internal/lang"
	"github.com/shaderlang/shaderls/internal/lang/glsl"
	"github.com/shaderlang/shaderls/internal/lang/hlsl"
	"github.com/shaderlang/shaderls/internal/lang/wgsl"
	"github.com/shaderlang/shaderls/internal/langserver"
	"github.com/shaderlang/shaderls/internal/logging"
	"github.com/shaderlang/shaderls/internal/transport"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	socketMode := flag.Bool("socket", false, "listen on a TCP socket at :5756 instead of stdio")
	flag.Parse()

	if *showVersion {
		fmt.Println("shaderls " + version)
		return
	}

	logging.Init()
	logging.Logger.Info("starting", "version", version)

	registry := lang.NewRegistry(
		glsl.New(tree_sitter_glsl.Language),
		hlsl.New(tree_sitter_hlsl.Language),
		wgsl.New(),
	)

	var r, w = os.Stdin, os.Stdout
	if *socketMode {
		ln, err := net.Listen("tcp", ":5756")
		if err != nil {
			logging.Logger.Error("failed to listen", "error", err)
			os.Exit(1)
		}
		conn, err := ln.Accept()
		if err != nil {
			logging.Logger.Error("failed to accept", "error", err)
			os.Exit(1)
		}
		defer conn.Close()
		t := transport.New(conn, conn)
		run(t, registry)
		return
	}

	t := transport.New(r, w)
	run(t, registry)
}

func run(t *transport.Transport, registry *lang.Registry) {
	s := langserver.New(t, registry)
	if err := s.Run(); err != nil {
		logging.Logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logging.Logger.Info("server exited cleanly")
}
