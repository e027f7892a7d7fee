// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package prompt

const queryTemplate = `You are an AI assistant helping developers understand their codebase architecture.

Repository: {{.RepoName}}
Language: {{.RepoLanguage}}

User Query: {{.Query}}

Based on the following codebase analysis, answer the user's question:
{{- if .Functions}}

## Available Functions/Code Elements:
{{range .Functions}}
- **{{.Name}}**
{{- if .Signature}}
  Signature: ` + "`{{.Signature}}`" + `
{{- end}}
{{- if .FilePath}}
  Location: ` + "`{{.FilePath}}`" + `
{{- end}}
{{- if .Line}}
  Line: {{.Line}}
{{- end}}
{{- if .Language}}
  Language: {{.Language}}
{{- end}}
{{- if .Relationships}}
  Relationships: {{len .Relationships}} found
{{- range .Shown}}
    - {{or .RelationshipType "unknown"}}: {{or .TargetName "unknown"}}
{{- end}}
{{- end}}
{{end}}
{{- end}}
{{- if .Services}}

## Services Used:
{{range .Services}}
- **{{.Name}}**{{if .Provider}} ({{.Provider}}){{end}}{{if .ServiceType}} - {{.ServiceType}}{{end}}
{{- if .FilePath}}
  Found in: ` + "`{{.FilePath}}`" + `
{{- end}}
{{- end}}
{{- end}}
{{- if .Dependencies}}

## Dependencies:
{{range .Dependencies}}
- **{{.Name}}**{{if .Version}} (v{{.Version}}){{end}}{{if .PackageManager}} [{{.PackageManager}}]{{end}}
{{- end}}
{{- end}}
{{- if .Tools}}

## Tools:
{{range .Tools}}
- **{{.Name}}**{{if .ToolType}} ({{.ToolType}}){{end}}
{{- if .ConfigFile}}
  Config: ` + "`{{.ConfigFile}}`" + `
{{- end}}
{{- end}}
{{- end}}
{{- if .Tests}}

## Tests:
{{range .Tests}}
- **{{.Name}}**{{if .TestFramework}} ({{.TestFramework}}){{end}}{{if .TestType}} - {{.TestType}}{{end}}
{{- if .FilePath}}
  Location: ` + "`{{.FilePath}}`" + `{{if .LineNumber}}:{{.LineNumber}}{{end}}
{{- end}}
{{- end}}
{{- end}}
{{- if .Docs}}

## Documentation:
{{range .Docs}}
- **{{or .Title .FileName}}**{{if .DocType}} ({{.DocType}}){{end}}
{{- if .FilePath}}
  Location: ` + "`{{.FilePath}}`" + `
{{- end}}
{{- if .Description}}
  {{.Description}}
{{- end}}
{{- end}}
{{- end}}
{{- if or .RelatedServices .RelatedDependencies}}

## Related Entities:
{{if .RelatedServices}}
Related Services: {{join .RelatedServices ", "}}
{{- end}}
{{- if .RelatedDependencies}}
Related Dependencies: {{join .RelatedDependencies ", "}}
{{- end}}
{{- end}}

Please provide a clear, concise answer to the user's question. Include:
- Specific function/entity names and locations
- How elements relate to each other
- Usage examples if available
- Any important warnings or considerations

Be thorough but concise.`

const refactoringTemplate = `You are an AI assistant analyzing refactoring impact.

Proposed Changes: {{.Change}}

## Impact Analysis:

**Affected Functions**: {{.AffectedCount}}
**Affected Services**: {{.ServiceCount}}
**Affected Dependencies**: {{.DependencyCount}}

### Affected Functions:
{{range .Functions}}
- **{{.Name}}**
{{- if .FilePath}}
  Location: ` + "`{{.FilePath}}`" + `
{{- end}}
  Relationship: {{or .Relationship "unknown"}}
  Risk: {{or .Risk "unknown"}}
{{end}}
{{- if .Chains}}

### Call Chains:
{{range .Chains}}
- {{.}}
{{- end}}
{{- end}}

Based on this impact analysis, provide:
1. Risk assessment (low/medium/high) with reasoning
2. Step-by-step refactoring recommendations
3. Testing considerations
4. Potential breaking changes
5. Migration strategy

Be specific about what could break and why.`

const summaryTemplate = `Found {{.Total}} relevant items in repository '{{.RepoName}}':
{{- if .Functions}}

**Functions/Code Elements ({{.FunctionCount}}):**
{{- range .Functions}}
- {{.Name}} ({{or .FilePath "unknown location"}})
{{- end}}
{{- end}}
{{- if .Services}}

**Services ({{.ServiceCount}}):**
{{- range .Services}}
- {{.Name}} ({{or .Provider "unknown provider"}})
{{- end}}
{{- end}}
{{- if .Dependencies}}

**Dependencies ({{.DependencyCount}}):**
{{- range .Dependencies}}
- {{.Name}} (v{{or .Version "unknown"}})
{{- end}}
{{- end}}
`
