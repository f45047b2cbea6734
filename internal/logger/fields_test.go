package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  hashing  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "hashing" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	enriched := WithFields(zap.New(core), zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if ctx := entries[0].ContextMap(); ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	enriched.Info("another log")
}

func TestCommonFields(t *testing.T) {
	fields := CommonFields("  gemini  ", "gemini-embedding-001")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldProvider || fields[0].String != "gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if fields[1].Key != FieldModel || fields[1].String != "gemini-embedding-001" {
		t.Fatalf("unexpected model field: %+v", fields[1])
	}

	if empty := CommonFields("", ""); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithCommonFieldsAndComponent(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	enriched := Component(WithCommonFields(zap.New(core), "openai", "text-embedding-3-small"), "matcher")
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldProvider] != "openai" {
		t.Fatalf("expected provider field to be openai, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "text-embedding-3-small" {
		t.Fatalf("expected model field, got %q", ctx[FieldModel])
	}
	if ctx[FieldComponent] != "matcher" {
		t.Fatalf("expected component field, got %q", ctx[FieldComponent])
	}

	if Component(nil, "x") == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
}
