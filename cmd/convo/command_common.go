package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"convo/internal/app"
	"convo/internal/store"
	"convo/internal/types"
)

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func printArchiveEntries(output io.Writer, entries []store.ArchiveEntry) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tVENDOR\tMESSAGES\tUPDATED\tTITLE")
	for _, entry := range entries {
		updated := "-"
		if !entry.UpdatedAt.IsZero() {
			updated = entry.UpdatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%s\t%s\n", entry.ID, entry.Vendor, entry.MessageCount, updated, entry.Title)
	}
	_ = writer.Flush()
}

func printTranscript(output io.Writer, session *types.Session, opts app.TranscriptOptions) {
	for _, line := range app.RenderTranscript(session, opts) {
		fmt.Fprintln(output, line)
	}
}
