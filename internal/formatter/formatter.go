// package formatter exports playlists to files (CSV, Markdown, JSON, plain text) and formats durations for display
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// ParseFormat accepts a format name or a common alias ("md", "txt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, s)
	}
}

// FormatDuration renders seconds as m:ss, or h:mm:ss from one hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Visibility renders the public flag.
func Visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

// ExportToCSV converts a playlist to CSV with columns: Position, ID, Title, Artist, Album, Duration, URL
func ExportToCSV(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist", "Album", "Duration", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range p.Songs {
		record := []string{
			strconv.Itoa(i + 1),
			song.ID,
			song.Title,
			song.Artist,
			song.Album,
			strconv.Itoa(song.Duration),
			song.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to Markdown with an optional cover image reference
func ExportToMarkdown(p models.Playlist, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if p.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", p.Description)
	}

	fmt.Fprintf(&buf, "**Songs**: %d\n", len(p.Songs))
	fmt.Fprintf(&buf, "**Length**: %s\n", FormatDuration(p.TotalDuration()))
	fmt.Fprintf(&buf, "**Visibility**: %s\n\n", Visibility(p.Public))

	buf.WriteString("## Songs\n\n")
	for i, song := range p.Songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, song.Artist, song.Title, albumPart, FormatDuration(song.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist to plain text
func ExportToText(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(p.Songs))

	for i, song := range p.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, song.Artist, song.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the full playlist, songs included, as indented JSON
func ExportToJSON(p models.Playlist) ([]byte, error) {
	if p.Songs == nil {
		p.Songs = []models.Song{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist: %w", err)
	}
	return append(data, '\n'), nil
}

// metadata is the playlist without its songs.
type metadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CoverURL    string    `json:"coverUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	Public      bool      `json:"isPublic"`
	SongCount   int       `json:"songCount"`
	Duration    int       `json:"duration"`
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without songs)
func ToMetadataJSON(p models.Playlist) ([]byte, error) {
	data, err := json.MarshalIndent(metadata{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CoverURL:    p.CoverURL,
		CreatedAt:   p.CreatedAt,
		Public:      p.Public,
		SongCount:   len(p.Songs),
		Duration:    p.TotalDuration(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ExportResult lists the files written by an export.
type ExportResult struct {
	Files []string
	// Warnings holds non-fatal problems, such as a cover image that could not be downloaded.
	Warnings []string
}

// WriteCSVExport writes {base}_songs.csv and {base}_metadata.json. base defaults to the playlist ID.
func WriteCSVExport(p models.Playlist, base string) (*ExportResult, error) {
	if base == "" {
		base = p.ID
	}

	csvData, err := ExportToCSV(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := base + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := base + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &ExportResult{Files: []string{songsFile, metadataFile}}, nil
}

// WriteMarkdownExport writes {dir}/README.md and, when the cover is a downloadable URL, {dir}/cover.jpg.
//
// The directory defaults to the playlist ID. A failed cover download is reported as a warning.
func WriteMarkdownExport(ctx context.Context, p models.Playlist, dir string, client *http.Client) (*ExportResult, error) {
	if dir == "" {
		dir = p.ID
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &ExportResult{}

	var coverFilename string
	if strings.HasPrefix(p.CoverURL, "http://") || strings.HasPrefix(p.CoverURL, "https://") {
		imageData, err := DownloadImage(ctx, client, p.CoverURL)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to download cover image: %v", err))
		} else {
			coverPath := filepath.Join(dir, "cover.jpg")
			if err := os.WriteFile(coverPath, imageData, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("failed to save cover image: %v", err))
			} else {
				coverFilename = "cover.jpg"
				result.Files = append(result.Files, coverPath)
			}
		}
	}

	mdData, err := ExportToMarkdown(p, coverFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteJSONExport writes the playlist to path, defaulting to {playlist.ID}.json.
func WriteJSONExport(p models.Playlist, path string) (*ExportResult, error) {
	if path == "" {
		path = p.ID + ".json"
	}

	data, err := ExportToJSON(p)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write JSON file: %w", err)
	}
	return &ExportResult{Files: []string{path}}, nil
}

// WriteTextExport writes the playlist to path, defaulting to {playlist.ID}_songs.txt.
func WriteTextExport(p models.Playlist, path string) (*ExportResult, error) {
	if path == "" {
		path = fmt.Sprintf("%s_songs.txt", p.ID)
	}

	textData, err := ExportToText(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write text file: %w", err)
	}

	return &ExportResult{Files: []string{path}}, nil
}

// Write exports p in format f to path (a directory for Markdown, a file or base name otherwise).
func Write(ctx context.Context, f Format, p models.Playlist, path string, client *http.Client) (*ExportResult, error) {
	switch f {
	case FormatCSV:
		return WriteCSVExport(p, path)
	case FormatMarkdown:
		return WriteMarkdownExport(ctx, p, path, client)
	case FormatJSON:
		return WriteJSONExport(p, path)
	case FormatText:
		return WriteTextExport(p, path)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, f)
	}
}
