package transport

import (
	"bytes"
	"fmt"
	"testing"
)

func frame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestReadSingleMessage(t *testing.T) {
	body := `{"jsonrpc":"2.0","method":"initialize","id":1}`
	tr := New(bytes.NewBufferString(frame(body)), &bytes.Buffer{})

	got, err := tr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != body {
		t.Errorf("got %q, want %q", got, body)
	}
}

func TestReadMultipleMessages(t *testing.T) {
	first := `{"jsonrpc":"2.0","method":"initialized"}`
	second := `{"jsonrpc":"2.0","method":"textDocument/didOpen"}`
	var buf bytes.Buffer
	buf.WriteString(frame(first))
	buf.WriteString(frame(second))

	tr := New(&buf, &bytes.Buffer{})

	got1, err := tr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got1) != first {
		t.Errorf("got %q, want %q", got1, first)
	}

	got2, err := tr.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got2) != second {
		t.Errorf("got %q, want %q", got2, second)
	}
}

func TestWriteFramesContentLength(t *testing.T) {
	var out bytes.Buffer
	tr := New(&bytes.Buffer{}, &out)

	body := []byte(`{"jsonrpc":"2.0","result":null}`)
	if err := tr.Write(body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := frame(string(body))
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestGetMethod(t *testing.T) {
	method, id, err := GetMethod([]byte(`{"jsonrpc":"2.0","id":7,"method":"shutdown"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != "shutdown" {
		t.Errorf("got method %q, want shutdown", method)
	}
	if string(id) != "7" {
		t.Errorf("got id %s, want 7", id)
	}
}
