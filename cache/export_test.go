package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestExporter_Export(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)
	c.Set(ctx, "key2", "value2")
	c.Set(ctx, "key1", "value1")

	exporter := NewExporter(c)
	var buf bytes.Buffer

	err := exporter.Export(ctx, &buf, map[string]string{"dest": "fr"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}

	if len(export.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(export.Entries))
	}

	if export.Entries[0].Key != "key1" || export.Entries[1].Key != "key2" {
		t.Errorf("Expected entries sorted by key, got %v", export.Entries)
	}

	if export.Metadata["dest"] != "fr" {
		t.Errorf("Expected metadata dest=fr, got %v", export.Metadata)
	}
}

func TestExporter_PayloadNotEscaped(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(0)
	c.Set(ctx, "k", `[null,[[[null,null,null,true,null,[["<b>"]]]]]]`)

	var buf bytes.Buffer
	if err := NewExporter(c).Export(ctx, &buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(buf.String(), "<b>") {
		t.Errorf("Expected raw '<b>' in export, got %s", buf.String())
	}
}

func TestImporter_Import(t *testing.T) {
	jsonData := `{
		"version": "1.0",
		"exported_at": "2024-01-01T00:00:00Z",
		"entries": [
			{"key": "key1", "value": "value1"},
			{"key": "key2", "value": "value2"}
		],
		"metadata": {"dest": "fr"}
	}`

	ctx := context.Background()
	c := NewInMemoryCache(time.Hour)
	importer := NewImporter(c)

	result, err := importer.Import(ctx, strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}

	if result.Failed != 0 {
		t.Errorf("Expected 0 failed, got %d", result.Failed)
	}

	if val, ok := c.Get(ctx, "key1"); !ok || val != "value1" {
		t.Errorf("key1 not found or wrong value: %s", val)
	}

	if val, ok := c.Get(ctx, "key2"); !ok || val != "value2" {
		t.Errorf("key2 not found or wrong value: %s", val)
	}
}

func TestExportImport_RoundTripFile(t *testing.T) {
	ctx := context.Background()
	src := NewInMemoryCache(time.Hour)
	src.Set(ctx, "hash1:auto:fr", "Bonjour")
	src.Set(ctx, "hash2:auto:fr", "Monde")

	path := filepath.Join(t.TempDir(), "cache.json")
	if err := NewExporter(src).ExportToFile(ctx, path, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := NewInMemoryCache(time.Hour)
	result, err := NewImporter(dst).ImportFromFile(ctx, path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}

	if val, ok := dst.Get(ctx, "hash1:auto:fr"); !ok || val != "Bonjour" {
		t.Errorf("hash1:auto:fr not found or wrong value")
	}
}

func TestExporter_EmptyCache(t *testing.T) {
	c := NewInMemoryCache(time.Hour)
	exporter := NewExporter(c)

	var buf bytes.Buffer
	err := exporter.Export(context.Background(), &buf, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if len(export.Entries) != 0 {
		t.Errorf("Expected 0 entries for empty cache, got %d", len(export.Entries))
	}
}

func TestExporter_Redis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	c := NewRedisCacheFromClient(db, time.Hour, "test:")

	mock.ExpectScan(0, "test:*", 100).SetVal([]string{"test:a", "test:b"}, 0)
	mock.ExpectGet("test:a").SetVal("alpha")
	mock.ExpectGet("test:b").RedisNil()

	var buf bytes.Buffer
	if err := NewExporter(c).Export(context.Background(), &buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if len(export.Entries) != 1 || export.Entries[0].Key != "a" || export.Entries[0].Value != "alpha" {
		t.Errorf("Unexpected entries: %v", export.Entries)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

type unexportable struct{}

func (unexportable) Get(context.Context, string) (string, bool) { return "", false }
func (unexportable) Set(context.Context, string, string) error { return nil }

func TestExporter_UnsupportedCache(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter(unexportable{}).Export(context.Background(), &buf, nil); err == nil {
		t.Error("Expected error for cache without export support")
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	c := NewInMemoryCache(time.Hour)
	importer := NewImporter(c)

	_, err := importer.Import(context.Background(), strings.NewReader("invalid json"))
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestImporter_UnsupportedVersion(t *testing.T) {
	c := NewInMemoryCache(time.Hour)

	_, err := NewImporter(c).Import(context.Background(), strings.NewReader(`{"version":"2.0","entries":[]}`))
	if err == nil {
		t.Error("Expected error for unsupported version")
	}
}
