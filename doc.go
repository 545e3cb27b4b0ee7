// Package sheetio imports spreadsheet files into ordered row collections and
// exports application data as CSV or XLSX workbooks.
//
// Reading turns CSV, TSV, XLSX and Parquet files into a RecordSet of rows.
// The first row always holds headings and is never returned. Large workbooks
// can be read in bounded windows ("chunks"); each window reopens the decoder
// and only the rows of that window are materialized.
//
// # Features
//
//   - Read CSV, TSV, XLSX (xlsm, xltx, xltm) and Parquet files
//   - Automatic handling of compressed files (gzip, bzip2, xz, zstandard)
//   - Windowed reading of workbooks with a configurable chunk size
//   - Typed import pipeline: Importer.Map per row, Importer.Handle per file
//   - Single-sheet, styled and multi-sheet exports rendered with excelize
//   - YAML-defined export templates
//   - Pluggable path resolution (storage root, embed.FS) and delivery (file, HTTP)
//
// # Reading
//
//	rows, err := sheetio.Read(ctx, "orders.xlsx", sheetio.NewReadOptions().WithChunkSize(500))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, row := range rows.All() {
//	    fmt.Println(i, row)
//	}
//
// CSV and TSV files are always read in one streaming pass. For workbooks a
// chunk size of zero reads the sheet in a single pass and keeps blank rows as
// empty rows; a positive chunk size reads windows of that many rows and drops
// rows whose cells are all empty. See BlankRowPolicy to change this.
//
// # Importing
//
// An Importer maps rows into application records and consumes them:
//
//	importer := sheetio.NewImporter(
//	    func(row sheetio.Row) User { return User{Name: fmt.Sprint(row[0])} },
//	    func(ctx context.Context, users []User) error { return repo.Save(ctx, users) },
//	)
//	engine := sheetio.New(sheetio.WithResolver(sheetio.DirResolver{Root: "storage"}))
//	err := sheetio.Import(ctx, engine, importer, "uploads/users.xlsx", sheetio.NewReadOptions())
//
// # Exporting
//
// Any type with Headings and Data is an Exporter. Adding Styles styles cell
// ranges, and adding Sheets produces a workbook with several sheets:
//
//	export, err := engine.Export(report)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := export.Bytes("report.xlsx")
//
// The target name selects the format: ".csv" writes the active sheet as CSV,
// anything else writes XLSX, and a ".gz", ".xz" or ".zst" suffix compresses
// the result. Download hands the bytes to the engine's Deliverer instead.
//
// # Error Handling
//
// Errors wrap the sentinel errors of this package, such as ErrFileNotFound
// and ErrSheetNotFound, together with the underlying decoder error. Use
// errors.Is to test for them. A failed read never returns partial rows.
package sheetio
