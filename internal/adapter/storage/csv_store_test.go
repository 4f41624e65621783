// internal/adapter/storage/csv_store_test.go

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jessicalanggg/trendlytics/internal/domain/media"
)

func TestWriteAndReadProfileVideos(t *testing.T) {
	store := NewCSVStore(t.TempDir())

	posts := []media.VideoPost{
		{URL: "https://t/v/1", Likes: "12.3K", Comments: "45", Text: "Cooking pasta #dinner"},
		{URL: "https://t/v/2", Likes: "", Comments: "", Text: ""},
	}
	path, err := store.WriteProfileVideos("chef", posts)
	if err != nil {
		t.Fatalf("WriteProfileVideos: %v", err)
	}
	if filepath.Base(path) != "chef_tiktok_videos.csv" {
		t.Errorf("unexpected filename %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	got, err := ReadProfileVideos(file)
	if err != nil {
		t.Fatalf("ReadProfileVideos: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(got))
	}
	if got[0].Likes != "12.3K" || got[0].Text != "Cooking pasta #dinner" {
		t.Errorf("round trip mangled post: %+v", got[0])
	}
	// Empty counts are written as zero.
	if got[1].Likes != "0" || got[1].Comments != "0" {
		t.Errorf("empty counts should default to 0: %+v", got[1])
	}
}

func TestReadProfileVideosEmpty(t *testing.T) {
	if _, err := ReadProfileVideos(strings.NewReader("url,likes,comments,description\n")); err == nil {
		t.Error("expected error for header-only csv")
	}
	if _, err := ReadProfileVideos(strings.NewReader("")); err == nil {
		t.Error("expected error for empty csv")
	}
}

func TestWriteChannelVideosPlaceholders(t *testing.T) {
	store := NewCSVStore(t.TempDir())

	videos := []media.ChannelVideo{
		{Title: "Real video title", Views: "1K views", UploadTime: "2 days ago", URL: "u"},
		{Title: "", Views: "", UploadTime: "", URL: ""},
	}
	path, err := store.WriteChannelVideos("maker", videos)
	if err != nil {
		t.Fatalf("WriteChannelVideos: %v", err)
	}

	header, rows, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile: %v", err)
	}
	if strings.Join(header, ",") != "title,views,upload_time,url" {
		t.Errorf("unexpected header %v", header)
	}
	if rows[1][0] != "Untitled Video" {
		t.Errorf("empty title should become Untitled Video, got %q", rows[1][0])
	}
	if rows[1][1] != "N/A" {
		t.Errorf("empty views should become N/A, got %q", rows[1][1])
	}
}

func TestWriteChannelVideosEmptyScrape(t *testing.T) {
	store := NewCSVStore(t.TempDir())

	path, err := store.WriteChannelVideos("ghost", nil)
	if err != nil {
		t.Fatalf("WriteChannelVideos: %v", err)
	}
	_, rows, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile: %v", err)
	}
	if len(rows) != 1 || !strings.Contains(rows[0][0], "Sample video from ghost") {
		t.Errorf("empty scrape should write a sample row, got %v", rows)
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	in := "title,views\nonly title\nfull,1K views\n"
	header, rows, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(header) != 2 || len(rows) != 2 {
		t.Fatalf("header %v rows %v", header, rows)
	}
	if len(rows[0]) != 1 {
		t.Errorf("short rows should be preserved, got %v", rows[0])
	}
}
