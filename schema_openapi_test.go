package settings_test

import (
	"testing"

	settings "github.com/goliatone/go-settings"
	"github.com/goliatone/go-settings/pkg/kv"
	openapi "github.com/goliatone/go-settings/schema/openapi"
)

var (
	_ settings.Store = (*kv.Memory)(nil)
	_ settings.Store = (*kv.File)(nil)
)

func fixtureTree(t *testing.T) *settings.Tree {
	t.Helper()
	root, err := settings.NewTree("Root")
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	stuff, err := settings.NewPage("Stuff")
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if _, err := root.Pages(stuff); err != nil {
		t.Fatalf("Pages: %v", err)
	}
	gubbin, err := settings.NewSetting("Gubbin", settings.WithDefault(false))
	if err != nil {
		t.Fatalf("NewSetting: %v", err)
	}
	volume, err := settings.NewSetting("Volume", settings.WithDefault(0.5))
	if err != nil {
		t.Fatalf("NewSetting: %v", err)
	}
	if _, err := stuff.Settings(gubbin, volume); err != nil {
		t.Fatalf("Settings: %v", err)
	}
	return root
}

func TestOpenAPIGeneratorIntegration(t *testing.T) {
	doc := fixtureTree(t).Finalize(openapi.Option())

	schema, err := doc.Schema()
	if err != nil {
		t.Fatalf("Schema returned error: %v", err)
	}
	if schema.Format != settings.SchemaFormatOpenAPI {
		t.Fatalf("expected format %q, got %q", settings.SchemaFormatOpenAPI, schema.Format)
	}
	document, ok := schema.Document.(map[string]any)
	if !ok {
		t.Fatalf("expected schema map, got %T", schema.Document)
	}
	paths, ok := document["paths"].(map[string]any)
	if !ok {
		t.Fatalf("expected paths map, got %T", document["paths"])
	}
	pathItem, ok := paths["/settings"].(map[string]any)
	if !ok {
		t.Fatalf("expected /settings path map, got %T", paths["/settings"])
	}
	operation, ok := pathItem["post"].(map[string]any)
	if !ok {
		t.Fatalf("expected post operation map, got %T", pathItem["post"])
	}
	requestBody, ok := operation["requestBody"].(map[string]any)
	if !ok {
		t.Fatalf("expected requestBody map, got %T", operation["requestBody"])
	}
	content, ok := requestBody["content"].(map[string]any)
	if !ok {
		t.Fatalf("expected content map, got %T", requestBody["content"])
	}
	media, ok := content["application/json"].(map[string]any)
	if !ok {
		t.Fatalf("expected application/json content, got %T", content["application/json"])
	}
	bodySchema, ok := media["schema"].(map[string]any)
	if !ok {
		t.Fatalf("expected schema map, got %T", media["schema"])
	}
	properties, ok := bodySchema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties map, got %T", bodySchema["properties"])
	}
	stuff, ok := properties["Stuff"].(map[string]any)
	if !ok {
		t.Fatalf("expected Stuff page object, got %T", properties["Stuff"])
	}
	pageProperties, ok := stuff["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected page properties map, got %T", stuff["properties"])
	}
	gubbin, ok := pageProperties["Gubbin"].(map[string]any)
	if !ok {
		t.Fatalf("expected Gubbin schema, got %T", pageProperties["Gubbin"])
	}
	if gubbin["type"] != "boolean" || gubbin["default"] != false {
		t.Fatalf("unexpected Gubbin schema: %#v", gubbin)
	}
	volume, ok := pageProperties["Volume"].(map[string]any)
	if !ok {
		t.Fatalf("expected Volume schema, got %T", pageProperties["Volume"])
	}
	if volume["type"] != "number" {
		t.Fatalf("unexpected Volume schema: %#v", volume)
	}
}

func TestOpenAPIGeneratorRootComponent(t *testing.T) {
	doc := fixtureTree(t).Finalize(openapi.Option(
		openapi.WithInfo("Host Menu", "2.0.0"),
		openapi.WithRootComponent("Settings"),
	))

	schema, err := doc.Schema()
	if err != nil {
		t.Fatalf("Schema returned error: %v", err)
	}
	document := schema.Document.(map[string]any)

	info := document["info"].(map[string]any)
	if info["title"] != "Host Menu" || info["version"] != "2.0.0" {
		t.Fatalf("unexpected info section: %#v", info)
	}

	components, ok := document["components"].(map[string]any)
	if !ok {
		t.Fatalf("expected components section, got %T", document["components"])
	}
	schemas := components["schemas"].(map[string]any)
	if _, ok := schemas["Settings"]; !ok {
		t.Fatalf("expected Settings component, got %#v", schemas)
	}

	media := document["paths"].(map[string]any)["/settings"].(map[string]any)["post"].(map[string]any)["requestBody"].(map[string]any)["content"].(map[string]any)["application/json"].(map[string]any)
	ref, ok := media["schema"].(map[string]any)
	if !ok || ref["$ref"] != "#/components/schemas/Settings" {
		t.Fatalf("expected a $ref to the root component, got %#v", media["schema"])
	}
}

func TestLensWithKVStoreIntegration(t *testing.T) {
	root, err := settings.NewTree("Root")
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	page, err := settings.NewPage("Stuff")
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if _, err := root.Pages(page); err != nil {
		t.Fatalf("Pages: %v", err)
	}
	gubbin, err := settings.NewSetting("Gubbin", settings.WithDefault(false))
	if err != nil {
		t.Fatalf("NewSetting: %v", err)
	}
	if _, err := page.Settings(gubbin); err != nil {
		t.Fatalf("Settings: %v", err)
	}

	store := kv.NewMemory()
	root.BindStore(store)

	gubbin.Set(true)
	value, err := gubbin.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != true {
		t.Fatalf("expected the kv-backed write observed, got %v", value)
	}
	if stored, ok := store.Get("Root/Stuff/Gubbin"); !ok || stored != true {
		t.Fatalf("expected the store keyed by the joined path, got %v %v", stored, ok)
	}
}
