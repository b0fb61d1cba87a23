package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/CDMG-DanEmma/DMS/internal/backup"
	"github.com/CDMG-DanEmma/DMS/internal/config"
	"github.com/CDMG-DanEmma/DMS/internal/export"
	"github.com/CDMG-DanEmma/DMS/internal/extract"
	"github.com/CDMG-DanEmma/DMS/internal/scan"
	"github.com/CDMG-DanEmma/DMS/pkg/models"
	"github.com/CDMG-DanEmma/DMS/pkg/utils"
)

// scanFolder reconciles a folder into the catalog and prints what changed
// followed by the folder summary.
func scanFolder(c *cli.Context) error {
	root, err := filepath.Abs(c.String("folder"))
	if err != nil {
		return err
	}
	policy := env.cfg.StalePolicy
	if c.IsSet("stale") {
		if policy, err = config.ParseStalePolicy(c.String("stale")); err != nil {
			return err
		}
	}

	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	scannerConfig := scan.ScannerConfig{StalePolicy: policy}

	var bar *pb.ProgressBar
	finishBar := func() {}
	if !c.Bool("no-progress") {
		total, err := scan.CountFiles(root)
		if err != nil {
			return fmt.Errorf("failed to read folder: %v", err)
		}
		bar = newScanBar(total)
		bar.Start()
		finished := false
		finishBar = func() {
			if !finished {
				bar.Finish()
				finished = true
			}
		}
		scannerConfig.OnFile = func(string) { bar.Increment() }
	}
	if !c.Bool("yes") {
		scannerConfig.ConfirmRemoval = func(paths []string) bool {
			finishBar()
			return confirmRemoval(paths)
		}
	}

	scanner := scan.NewScanner(catalog, extract.New(env.cfg.FileTypes), env.log, &scannerConfig)
	start := time.Now()
	result, err := scanner.ScanFolder(root)
	finishBar()
	if result == nil {
		return fmt.Errorf("failed to scan folder: %v", err)
	}
	if terr := catalog.TouchRecentFolder(root); terr != nil {
		env.log.Warn("failed to record recent folder", "folder", root, "error", terr)
	}

	fmt.Printf("\nScan %s of %s (%s)\n", result.ID, root, utils.FormatDuration(time.Since(start)))
	fmt.Printf("- Processed: %d files (%d added, %d updated, %d unchanged)\n",
		result.Processed, result.Added, result.Updated, result.Unchanged)
	if result.Skipped > 0 {
		fmt.Printf("- Skipped: %d\n", result.Skipped)
	}
	if result.Failed > 0 {
		fmt.Printf("- Failed writes: %d\n", result.Failed)
	}
	if result.Restored > 0 {
		fmt.Printf("- Back on disk: %d\n", result.Restored)
	}
	if n := len(result.Removed); n > 0 {
		fmt.Printf("- No longer on disk: %d (%s: %d marked, %d deleted)\n", n, policy, result.Marked, result.Deleted)
	}
	if err != nil {
		return fmt.Errorf("scan aborted: %v", err)
	}

	summary, err := scanner.Summary(root)
	if err != nil {
		return fmt.Errorf("failed to get summary: %v", err)
	}
	printSummary(summary)
	return nil
}

func newScanBar(total int) *pb.ProgressBar {
	bar := pb.New(total)
	bar.SetTemplateString(`Scanning {{counters . }} {{bar . }} {{percent . }} {{etime . }}`)
	return bar
}

func searchCatalog(c *cli.Context) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	records, err := catalog.Search(criteriaFrom(c))
	if err != nil {
		return fmt.Errorf("search failed: %v", err)
	}

	base := c.String("relative")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tREV\tDEPARTMENT\tMODIFIED\tPATH")
	for _, rec := range records {
		path := rec.FilePath
		if base != "" {
			path = utils.GetRelativePath(path, base)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.FileType, rec.Revision, rec.Department,
			utils.FormatTimestamp(rec.LastModified.Local()), path)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d file(s)\n", len(records))
	return nil
}

func showRecord(c *cli.Context) error {
	path, err := filepath.Abs(c.String("path"))
	if err != nil {
		return err
	}
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	rec, err := catalog.GetRecord(models.ByPath(path))
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%s is not in the catalog", path)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", rec.ID)
	fmt.Fprintf(w, "Path:\t%s\n", rec.FilePath)
	fmt.Fprintf(w, "Name:\t%s\n", rec.FileName)
	fmt.Fprintf(w, "Source:\t%s\n", rec.Source)
	fmt.Fprintf(w, "Type:\t%s\n", rec.FileType)
	fmt.Fprintf(w, "Modified:\t%s\n", utils.FormatTimestamp(rec.LastModified.Local()))
	fmt.Fprintf(w, "Created:\t%s\n", utils.FormatTimestamp(rec.CreatedDate.Local()))
	if info, err := os.Stat(rec.FilePath); err == nil {
		fmt.Fprintf(w, "Size:\t%s\n", utils.FormatFileSize(info.Size()))
	} else {
		fmt.Fprintf(w, "Size:\tnot on disk\n")
	}
	if rec.MissingSince != nil {
		fmt.Fprintf(w, "Missing since:\t%s\n", utils.FormatTimestamp(rec.MissingSince.Local()))
	}

	revision := rec.Revision
	if revision == "" {
		if guess, ok := utils.ParseRevision(rec.FileName); ok {
			revision = guess + " (from file name)"
		}
	}
	fmt.Fprintf(w, "Issue status:\t%s\n", rec.IssueStatus)
	fmt.Fprintf(w, "Revision:\t%s\n", revision)
	fmt.Fprintf(w, "Department:\t%s\n", rec.Department)
	fmt.Fprintf(w, "Drawing type:\t%s\n", rec.DrawingType)
	fmt.Fprintf(w, "Plant area:\t%s\n", rec.PlantArea)
	fmt.Fprintf(w, "Equipment:\t%s\n", rec.EquipmentIncluded)
	fmt.Fprintf(w, "Notes:\t%s\n", rec.Notes)
	fmt.Fprintf(w, "TODOs:\t%s\n", rec.Todos)
	return w.Flush()
}

// tagRecord writes the given tag flags to one record and feeds each value
// into the input history used by suggest.
func tagRecord(c *cli.Context) error {
	path, err := filepath.Abs(c.String("path"))
	if err != nil {
		return err
	}

	raw := map[string]any{}
	if c.IsSet("file-type") {
		raw[string(models.FieldFileType)] = c.String("file-type")
	}
	for _, f := range tagFieldFlags {
		if c.IsSet(f.name) {
			raw[string(f.field)] = c.String(f.name)
		}
	}
	allow := append(append([]string{}, config.MetadataFields...), string(models.FieldNotes), string(models.FieldTodos))

	fields := models.Fields{}
	for k, v := range utils.ValidateMetadata(raw, allow) {
		fields[models.Field(k)] = v
	}
	for _, name := range c.StringSlice("clear") {
		f := models.Field(name)
		if !isTagField(f) {
			return fmt.Errorf("cannot clear %q: not a tag field", name)
		}
		fields[f] = ""
	}
	if len(fields) == 0 {
		return errors.New("nothing to update, pass at least one tag flag")
	}

	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	ok, err := catalog.UpdateRecord(models.ByPath(path), fields)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not in the catalog, scan its folder first", path)
	}
	recordUsage(catalog, fields)

	fmt.Printf("Updated %d field(s) on %s\n", len(fields), path)
	return nil
}

func isTagField(f models.Field) bool {
	for _, t := range models.TagFields {
		if t == f {
			return true
		}
	}
	return false
}

type usageRecorder interface {
	RecordInputUsage(field, value string) error
}

// recordUsage stores applied values in the input history. Free text is not
// worth suggesting and is left out.
func recordUsage(catalog usageRecorder, fields models.Fields) {
	for f, v := range fields {
		s, _ := v.(string)
		if s == "" || f == models.FieldNotes || f == models.FieldTodos {
			continue
		}
		if err := catalog.RecordInputUsage(string(f), s); err != nil {
			env.log.Warn("failed to record input usage", "field", f, "error", err)
		}
	}
}

// importTags applies a CSV tag sheet to existing records.
func importTags(c *cli.Context) error {
	file, err := os.Open(c.String("csv"))
	if err != nil {
		return fmt.Errorf("error opening CSV file: %v", err)
	}
	defer file.Close()

	rows, err := export.ReadTags(file)
	if err != nil {
		return err
	}

	folder := c.String("folder")
	if folder != "" {
		if folder, err = filepath.Abs(folder); err != nil {
			return err
		}
	}

	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	processed, missing, skipped := 0, 0, 0
	for _, row := range rows {
		if len(row.Fields) == 0 || (folder != "" && !utils.IsUnder(row.Path, folder)) {
			skipped++
			continue
		}
		ok, err := catalog.UpdateRecord(models.ByPath(row.Path), row.Fields)
		if err != nil {
			return fmt.Errorf("error applying CSV line %d: %v", row.Line, err)
		}
		if !ok {
			missing++
			continue
		}
		recordUsage(catalog, row.Fields)
		processed++
	}

	fmt.Printf("\nImport Summary:\n")
	fmt.Printf("- Successfully processed: %d files\n", processed)
	fmt.Printf("- Not in catalog: %d\n", missing)
	fmt.Printf("- Skipped: %d\n", skipped)
	return nil
}

func suggestValues(c *cli.Context) error {
	field := models.Field(c.String("field"))
	if !field.IsText() || field == models.FieldFilePath {
		return fmt.Errorf("unknown field %q", field)
	}
	prefix := c.String("prefix")

	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	suggestions, err := catalog.Suggestions(string(field), prefix, c.Int("limit"))
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, s := range suggestions {
		fmt.Printf("%s (%d)\n", s.FieldValue, s.UsageCount)
		seen[s.FieldValue] = true
	}
	if field == models.FieldDepartment {
		for _, d := range config.Departments {
			if !seen[d] && strings.HasPrefix(strings.ToLower(d), strings.ToLower(prefix)) {
				fmt.Println(d)
			}
		}
	}
	return nil
}

func listRecent(c *cli.Context) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	folders, err := catalog.RecentFolders(models.MaxRecentFolders)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		fmt.Println("No recent folders")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, f := range folders {
		fmt.Fprintf(w, "%s\t%s\n", f.FolderPath, humanize.Time(f.LastAccessed))
	}
	return w.Flush()
}

func removeRecent(c *cli.Context) error {
	folder, err := filepath.Abs(c.String("folder"))
	if err != nil {
		return err
	}
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	removed, err := catalog.RemoveRecentFolder(folder)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%s is not a recent folder", folder)
	}
	fmt.Printf("Removed %s\n", folder)
	return nil
}

func pruneRecent(c *cli.Context) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	folders, err := catalog.RecentFolders(models.MaxRecentFolders)
	if err != nil {
		return err
	}
	pruned := 0
	for _, f := range folders {
		if info, err := os.Stat(f.FolderPath); err == nil && info.IsDir() {
			continue
		}
		if _, err := catalog.RemoveRecentFolder(f.FolderPath); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", f.FolderPath)
		pruned++
	}
	fmt.Printf("%d folder(s) pruned\n", pruned)
	return nil
}

func showSummary(c *cli.Context) error {
	root, err := filepath.Abs(c.String("folder"))
	if err != nil {
		return err
	}
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	summary, err := scan.NewScanner(catalog, extract.New(env.cfg.FileTypes), env.log, nil).Summary(root)
	if err != nil {
		return fmt.Errorf("failed to get summary: %v", err)
	}
	printSummary(summary)
	return nil
}

func printSummary(s *models.ScanSummary) {
	fmt.Printf("\nFolder: %s\n", s.Root)
	fmt.Printf("Total Files: %d\n", s.TotalFiles)
	fmt.Printf("Tagged: %d, Untagged: %d\n", s.TaggedFiles, s.UntaggedFiles)

	types := make([]string, 0, len(s.TypeCounts))
	for t := range s.TypeCounts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %-6s %d\n", t, s.TypeCounts[t])
	}
}

// showStatus shows catalog-wide counts and where the catalog lives.
func showStatus(c *cli.Context) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	stats, err := catalog.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %v", err)
	}

	fmt.Printf("Catalog: %s", env.cfg.DBPath)
	if info, err := os.Stat(env.cfg.DBPath); err == nil {
		fmt.Printf(" (%s)", humanize.Bytes(uint64(info.Size())))
	}
	fmt.Println()
	fmt.Printf("Total Files: %s\n", humanize.Comma(stats.TotalFiles))
	fmt.Printf("Tagged: %s\n", humanize.Comma(stats.TaggedFiles))
	fmt.Printf("Untagged: %s\n", humanize.Comma(stats.UntaggedFiles))
	fmt.Printf("Missing: %s\n", humanize.Comma(stats.MissingFiles))
	fmt.Printf("Recent Folders: %d\n", stats.RecentFolders)
	if stats.TotalFiles > 0 {
		fmt.Printf("Progress: %.2f%% tagged\n", float64(stats.TaggedFiles)/float64(stats.TotalFiles)*100)
	}
	return nil
}

func exportRecords(c *cli.Context) error {
	format := strings.ToLower(c.String("format"))
	out := c.String("out")
	if out == "" {
		out = utils.SanitizeFilename(fmt.Sprintf("catalog %s.%s", time.Now().Format(utils.TimestampLayout), format))
	}

	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	records, err := catalog.Search(criteriaFrom(c))
	if err != nil {
		return fmt.Errorf("search failed: %v", err)
	}

	file, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.Write(file, format, records); err != nil {
		file.Close()
		os.Remove(out)
		return fmt.Errorf("export failed: %v", err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d record(s) to %s\n", len(records), out)
	return nil
}

func backupCatalog(c *cli.Context) error {
	uploader, err := backup.New(env.cfg.Backup, env.log)
	if err != nil {
		return err
	}
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := uploader.Backup(ctx, catalog)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s/%s (%s)\n", result.Bucket, result.Key, humanize.Bytes(uint64(result.Size)))
	fmt.Printf("BLAKE2b-256: %s\n", result.Checksum)
	return nil
}
