package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
	th "github.com/desertthunder/sonora/internal/testing"
)

func testPlaylist() models.Playlist {
	return models.Playlist{
		ID:          "pl1",
		Name:        "Road Trip",
		Description: "Songs for the highway",
		CoverURL:    "/placeholder-playlist.jpg",
		CreatedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Public:      true,
		Songs: []models.Song{
			{ID: "1", Title: "Bohemian Rhapsody", Artist: "Queen", Album: "A Night at the Opera", Duration: 355, URL: "/audio/sample1.mp3"},
			{ID: "2", Title: "Hotel California", Artist: "Eagles", Duration: 391, URL: "/audio/sample2.mp3"},
		},
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{355, "5:55"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": FormatCSV, "MD": FormatMarkdown, "json": FormatJSON, "txt": FormatText} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	p := testPlaylist()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(p)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "Position,ID,Title,Artist,Album,Duration,URL" {
			t.Errorf("unexpected headers %q", lines[0])
		}
		if lines[1] != "1,1,Bohemian Rhapsody,Queen,A Night at the Opera,355,/audio/sample1.mp3" {
			t.Errorf("unexpected first row %q", lines[1])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(p, "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Road Trip",
				"**Description**: Songs for the highway",
				"**Songs**: 2",
				"**Length**: 12:26",
				"**Visibility**: public",
				"1. Queen - Bohemian Rhapsody (A Night at the Opera) [5:55]",
				"2. Eagles - Hotel California [6:31]",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got: %s", want, output)
				}
			}
			if strings.Contains(output, "![Cover]") {
				t.Error("Markdown should not reference a cover")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, _ := ExportToMarkdown(p, "cover.jpg")
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(p)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"Playlist: Road Trip", "Songs: 2", "2. Eagles - Hotel California"} {
			if !strings.Contains(output, want) {
				t.Errorf("Text missing %q", want)
			}
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(p)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var got models.Playlist
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Name != p.Name || len(got.Songs) != 2 || got.Songs[1].Title != "Hotel California" {
			t.Errorf("unexpected playlist %+v", got)
		}

		empty, _ := ExportToJSON(models.Playlist{ID: "x"})
		if !strings.Contains(string(empty), `"songs": []`) {
			t.Errorf("empty playlist should export an empty songs array: %s", empty)
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(p)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)
		if strings.Contains(output, "Bohemian") {
			t.Error("metadata should not include songs")
		}
		if !strings.Contains(output, `"songCount": 2`) || !strings.Contains(output, `"duration": 746`) {
			t.Errorf("metadata missing counts: %s", output)
		}
	})
}

func TestWriteExports(t *testing.T) {
	ctx := context.Background()
	p := testPlaylist()

	t.Run("CSV", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "trip")
		res, err := Write(ctx, FormatCSV, p, base, nil)
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if len(res.Files) != 2 || res.Files[0] != base+"_songs.csv" || res.Files[1] != base+"_metadata.json" {
			t.Errorf("unexpected files %v", res.Files)
		}
		if !strings.Contains(th.MustReadFile(t, res.Files[0]), "Hotel California") {
			t.Error("CSV file missing songs")
		}
	})

	t.Run("JSON and text", func(t *testing.T) {
		dir := t.TempDir()
		res, err := Write(ctx, FormatJSON, p, filepath.Join(dir, "trip.json"), nil)
		if err != nil || len(res.Files) != 1 {
			t.Fatalf("JSON export = %v, %v", res, err)
		}

		res, err = Write(ctx, FormatText, p, filepath.Join(dir, "trip.txt"), nil)
		if err != nil {
			t.Fatalf("text export failed: %v", err)
		}
		if !strings.HasPrefix(th.MustReadFile(t, res.Files[0]), "Playlist: Road Trip") {
			t.Error("text file has unexpected content")
		}
	})

	t.Run("Markdown with cover", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("jpegdata"))
		}))
		defer srv.Close()

		withCover := p
		withCover.CoverURL = srv.URL + "/cover.jpg"
		dir := filepath.Join(t.TempDir(), "trip")

		res, err := Write(ctx, FormatMarkdown, withCover, dir, srv.Client())
		if err != nil {
			t.Fatalf("Markdown export failed: %v", err)
		}
		if len(res.Files) != 2 || len(res.Warnings) != 0 {
			t.Errorf("unexpected result %+v", res)
		}
		if th.MustReadFile(t, filepath.Join(dir, "cover.jpg")) != "jpegdata" {
			t.Error("cover image not written")
		}
		if !strings.Contains(th.MustReadFile(t, filepath.Join(dir, "README.md")), "![Cover](cover.jpg)") {
			t.Error("README should reference the cover")
		}
	})

	t.Run("Markdown with failing cover", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		withCover := p
		withCover.CoverURL = srv.URL + "/missing.jpg"
		dir := filepath.Join(t.TempDir(), "trip")

		res, err := WriteMarkdownExport(ctx, withCover, dir, srv.Client())
		if err != nil {
			t.Fatalf("Markdown export failed: %v", err)
		}
		if len(res.Warnings) != 1 || len(res.Files) != 1 {
			t.Errorf("expected one warning and README only, got %+v", res)
		}
		if _, err := os.Stat(filepath.Join(dir, "cover.jpg")); !os.IsNotExist(err) {
			t.Error("cover should not exist")
		}
	})

	t.Run("Unwritable path", func(t *testing.T) {
		_, err := WriteTextExport(p, filepath.Join(t.TempDir(), "missing", "trip.txt"))
		if err == nil {
			t.Error("expected write error")
		}
	})
}
