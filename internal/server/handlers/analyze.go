// internal/server/handlers/analyze.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jessicalanggg/trendlytics/internal/adapter/storage"
	"github.com/jessicalanggg/trendlytics/internal/domain/media"
	"github.com/jessicalanggg/trendlytics/internal/service/analysis"
)

// maxUploadSize bounds uploaded CSV files.
const maxUploadSize = 10 << 20

// AnalyzeHandler handles scrape and analysis HTTP requests
type AnalyzeHandler struct {
	profiles media.ProfileSource
	channels media.ChannelSource
	analyzer *analysis.Analyzer
	csvStore *storage.CSVStore
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(
	profiles media.ProfileSource,
	channels media.ChannelSource,
	analyzer *analysis.Analyzer,
	csvStore *storage.CSVStore,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		profiles: profiles,
		channels: channels,
		analyzer: analyzer,
		csvStore: csvStore,
	}
}

type handleRequest struct {
	Username  string `json:"username"`
	ChannelID string `json:"channel_id"`
}

// TikTokAnalyze scrapes a TikTok profile and runs the full analysis
// pipeline over its recent videos.
func (h *AnalyzeHandler) TikTokAnalyze(w http.ResponseWriter, r *http.Request) {
	var req handleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	username := strings.TrimPrefix(strings.TrimSpace(req.Username), "@")
	if username == "" {
		respondWithError(w, http.StatusBadRequest, "Missing username", nil)
		return
	}

	profile, posts, err := h.profiles.FetchProfile(r.Context(), username)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to scrape profile", err)
		return
	}

	csvFile, err := h.csvStore.WriteProfileVideos(username, posts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save video data", err)
		return
	}

	report, err := h.analyzer.AnalyzeProfile(r.Context(), "tiktok", username, posts)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Analysis failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"report":  report,
		"scrape": media.ScrapeResult{
			Platform:   "tiktok",
			Handle:     username,
			VideoCount: len(posts),
			CSVFile:    csvFile,
			ScrapedAt:  time.Now().UTC(),
		},
	})
}

// YouTubeScrape scrapes a YouTube channel's videos tab and saves the
// rows as CSV without running analysis.
func (h *AnalyzeHandler) YouTubeScrape(w http.ResponseWriter, r *http.Request) {
	var req handleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	channelID := strings.TrimPrefix(strings.TrimSpace(req.ChannelID), "@")
	if channelID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing channel ID", nil)
		return
	}

	info, videos, err := h.channels.FetchChannel(r.Context(), channelID)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to scrape channel", err)
		return
	}

	csvFile, err := h.csvStore.WriteChannelVideos(channelID, videos)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save video data", err)
		return
	}

	preview := videos
	if len(preview) > 3 {
		preview = preview[:3]
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"channel_info": info,
		"data_preview": preview,
		"scrape": media.ScrapeResult{
			Platform:   "youtube",
			Handle:     channelID,
			VideoCount: len(videos),
			CSVFile:    csvFile,
			ScrapedAt:  time.Now().UTC(),
		},
	})
}

// YouTubeAnalyze analyzes an uploaded CSV of video titles.
func (h *AnalyzeHandler) YouTubeAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing CSV file", err)
		return
	}
	defer file.Close()

	header, rows, err := storage.ReadCSV(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read CSV", err)
		return
	}
	titles, err := analysis.TitlesFromCSV(header, rows)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "No usable video titles", err)
		return
	}

	channelID := strings.TrimSpace(r.FormValue("channel_id"))
	if channelID == "" {
		channelID = "uploaded"
	}

	report, err := h.analyzer.AnalyzeChannel(r.Context(), channelID, titles)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Analysis failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// YouTubeFull scrapes a channel and immediately analyzes the result.
func (h *AnalyzeHandler) YouTubeFull(w http.ResponseWriter, r *http.Request) {
	var req handleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	channelID := strings.TrimPrefix(strings.TrimSpace(req.ChannelID), "@")
	if channelID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing channel ID", nil)
		return
	}

	info, videos, err := h.channels.FetchChannel(r.Context(), channelID)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to scrape channel", err)
		return
	}
	csvFile, err := h.csvStore.WriteChannelVideos(channelID, videos)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save video data", err)
		return
	}

	titles := make([]string, 0, len(videos))
	for _, v := range videos {
		titles = append(titles, v.Title)
	}
	valid, err := analysis.TitlesFromCSV([]string{"title"}, rowsFromTitles(titles))
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "No usable video titles", err)
		return
	}

	report, err := h.analyzer.AnalyzeChannel(r.Context(), channelID, valid)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "Analysis failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"channel_info": info,
		"report":       report,
		"scrape": media.ScrapeResult{
			Platform:   "youtube",
			Handle:     channelID,
			VideoCount: len(videos),
			CSVFile:    csvFile,
			ScrapedAt:  time.Now().UTC(),
		},
	})
}

func rowsFromTitles(titles []string) [][]string {
	rows := make([][]string, len(titles))
	for i, t := range titles {
		rows[i] = []string{t}
	}
	return rows
}
