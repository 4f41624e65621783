// internal/adapter/storage/csv_store.go

package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessicalanggg/trendlytics/internal/domain/media"
)

var tiktokHeader = []string{"url", "likes", "comments", "description"}
var youtubeHeader = []string{"title", "views", "upload_time", "url"}

// CSVStore reads and writes scraped video data as CSV files. The files
// double as the exchange format for uploaded datasets.
type CSVStore struct {
	Dir string
}

// NewCSVStore creates a CSV store rooted at dir.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{Dir: dir}
}

// WriteProfileVideos writes TikTok video rows for a username and
// returns the file path.
func (s *CSVStore) WriteProfileVideos(username string, posts []media.VideoPost) (string, error) {
	path := filepath.Join(s.Dir, fmt.Sprintf("%s_tiktok_videos.csv", username))
	file, err := s.create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(tiktokHeader); err != nil {
		return "", fmt.Errorf("error writing header: %w", err)
	}
	for _, p := range posts {
		row := []string{p.URL, orNA(p.Likes, "0"), orNA(p.Comments, "0"), orNA(p.Text, "N/A")}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing csv: %w", err)
	}
	return path, nil
}

// ReadProfileVideos reads TikTok video rows from a CSV stream.
func ReadProfileVideos(r io.Reader) ([]media.VideoPost, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	col := columnIndex(header, tiktokHeader)
	var posts []media.VideoPost
	for _, row := range rows {
		posts = append(posts, media.VideoPost{
			URL:      field(row, col["url"]),
			Likes:    orNA(field(row, col["likes"]), "0"),
			Comments: orNA(field(row, col["comments"]), "0"),
			Text:     field(row, col["description"]),
		})
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("csv contains no video rows")
	}
	return posts, nil
}

// WriteChannelVideos writes YouTube video rows for a channel and
// returns the file path. An empty scrape still yields one sample row so
// the file is never headerless-only.
func (s *CSVStore) WriteChannelVideos(channelID string, videos []media.ChannelVideo) (string, error) {
	path := filepath.Join(s.Dir, fmt.Sprintf("%s_youtube_videos.csv", channelID))
	file, err := s.create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(youtubeHeader); err != nil {
		return "", fmt.Errorf("error writing header: %w", err)
	}
	if len(videos) == 0 {
		videos = []media.ChannelVideo{{
			Title:      fmt.Sprintf("Sample video from %s", channelID),
			Views:      "N/A",
			UploadTime: "N/A",
			URL:        "N/A",
		}}
	}
	for _, v := range videos {
		title := strings.TrimSpace(v.Title)
		if title == "" || title == "N/A" {
			title = "Untitled Video"
		}
		row := []string{title, orNA(v.Views, "N/A"), orNA(v.UploadTime, "N/A"), orNA(v.URL, "N/A")}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing csv: %w", err)
	}
	return path, nil
}

// ReadCSV reads any CSV stream into a header and rows. Short rows are
// tolerated since scraped data is ragged.
func ReadCSV(r io.Reader) (header []string, rows [][]string, err error) {
	return readAll(r)
}

// ReadCSVFile reads a CSV file from disk.
func ReadCSVFile(path string) (header []string, rows [][]string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening csv: %w", err)
	}
	defer file.Close()
	return readAll(file)
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv is empty")
	}
	return records[0], records[1:], nil
}

func (s *CSVStore) create(path string) (*os.File, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating data dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating csv: %w", err)
	}
	return file, nil
}

// columnIndex maps wanted column names to their positions, falling back
// to the conventional order when the header is absent or unknown.
func columnIndex(header []string, wanted []string) map[string]int {
	col := make(map[string]int, len(wanted))
	for i, want := range wanted {
		col[want] = i
	}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for _, want := range wanted {
			if name == want {
				col[want] = i
			}
		}
	}
	return col
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func orNA(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
