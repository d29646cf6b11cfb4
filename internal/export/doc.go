// Package export writes book snapshots to files and reads import files.
//
// # Export
//
//	exporter := export.NewExporter(export.FormatYAML)
//	data, err := exporter.Export(coord.Store().Snapshot())
//	err = export.WriteFile("backup/books.yaml", data)
//
// Supported formats:
//   - JSON (same shape as the REST list response)
//   - YAML
//   - CSV (header row: _id,title,author,publishedYear,genre)
//
// # Import
//
//	drafts, err := export.ReadDrafts("books.yaml")
//	result := coord.Import(ctx, drafts)
//
// Import files are YAML or JSON lists of books; ids in the file are ignored.
package export
