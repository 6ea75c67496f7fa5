package analysis

import (
	"embed"
)

//go:embed schema/result.schema.json
var schemaFS embed.FS

// SchemaJSON returns the JSON Schema every generated record must satisfy.
// The validate package compiles it; prompt builders may quote it.
func SchemaJSON() []byte {
	data, err := schemaFS.ReadFile("schema/result.schema.json")
	if err != nil {
		// The file is embedded at build time; a read failure is a build bug.
		panic("analysis: embedded schema missing: " + err.Error())
	}
	return data
}

// WireSchema is the compact restatement of the required output shape used in
// oracle prompts. Kept terse on purpose: small local models follow a short
// schema block more reliably than a full JSON Schema document.
const WireSchema = `{
  "document_type": "string",
  "parties": ["string"],
  "dates": [{"label": "string", "value": "string"}],
  "amounts": [{"concept": "string", "value": number|null, "currency": "string|null"}],
  "obligations": ["string"],
  "rights": ["string"],
  "risks": ["string"],
  "summary_bullets": ["string"],
  "notes": ["string"],
  "confidence": number
}`
