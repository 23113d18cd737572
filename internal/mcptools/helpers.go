package mcptools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ExtractVideoID accepts a bare video ID or a full YouTube URL
// (youtu.be short links and watch?v= links) and returns the ID.
func ExtractVideoID(urlOrID string) string {
	if !strings.Contains(urlOrID, "youtube.com") && !strings.Contains(urlOrID, "youtu.be") {
		return urlOrID
	}
	if idx := strings.Index(urlOrID, "youtu.be/"); idx >= 0 {
		id := urlOrID[idx+len("youtu.be/"):]
		if q := strings.IndexByte(id, '?'); q >= 0 {
			id = id[:q]
		}
		return id
	}
	if idx := strings.Index(urlOrID, "watch?v="); idx >= 0 {
		id := urlOrID[idx+len("watch?v="):]
		if amp := strings.IndexByte(id, '&'); amp >= 0 {
			id = id[:amp]
		}
		return id
	}
	return urlOrID
}

// ExtractChannelID accepts a bare channel ID, a /channel/ URL, or an
// @handle URL. Handles are returned as "@name" for forHandle resolution.
func ExtractChannelID(urlOrID string) string {
	if !strings.Contains(urlOrID, "youtube.com") {
		return urlOrID
	}
	if idx := strings.Index(urlOrID, "/channel/"); idx >= 0 {
		id := urlOrID[idx+len("/channel/"):]
		if slash := strings.IndexByte(id, '/'); slash >= 0 {
			id = id[:slash]
		}
		return id
	}
	if idx := strings.Index(urlOrID, "/@"); idx >= 0 {
		handle := urlOrID[idx+1:]
		if slash := strings.IndexByte(handle, '/'); slash >= 0 {
			handle = handle[:slash]
		}
		return handle
	}
	return urlOrID
}

// FormatNumber renders large counters with K, M, B suffixes.
func FormatNumber(n uint64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatUint(n, 10)
}

// FormatDuration renders an ISO 8601 duration (e.g. "PT1H2M3S") in a
// readable form ("1h 2m 3s"). Unparseable input is returned unchanged.
func FormatDuration(iso string) string {
	total, ok := parseISODuration(iso)
	if !ok {
		return iso
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// parseISODuration returns total seconds for P[nD]T[nH][nM][nS] forms.
// Weeks (PnW) are accepted; fractional components are not.
func parseISODuration(iso string) (int, bool) {
	if len(iso) < 2 || iso[0] != 'P' {
		return 0, false
	}

	total := 0
	num := 0
	hasNum := false
	inTime := false

	for _, r := range iso[1:] {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
			hasNum = true
		case r == 'T':
			if hasNum {
				return 0, false
			}
			inTime = true
		default:
			if !hasNum {
				return 0, false
			}
			switch {
			case r == 'W' && !inTime:
				total += num * 7 * 86400
			case r == 'D' && !inTime:
				total += num * 86400
			case r == 'H' && inTime:
				total += num * 3600
			case r == 'M' && inTime:
				total += num * 60
			case r == 'S' && inTime:
				total += num
			default:
				return 0, false
			}
			num = 0
			hasNum = false
		}
	}
	if hasNum {
		return 0, false
	}
	return total, true
}

func videoURL(videoID string) string {
	return "https://youtube.com/watch?v=" + videoID
}

func channelURL(channelID string) string {
	return "https://youtube.com/channel/" + channelID
}

// jsonResult marshals a payload to indented JSON text content.
func jsonResult(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult renders an error as plain "Error: ..." text content.
// Tool failures are reported in-band, never as protocol errors.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultText("Error: " + err.Error())
}

func errorResultf(format string, args ...interface{}) *mcp.CallToolResult {
	return mcp.NewToolResultText("Error: " + fmt.Sprintf(format, args...))
}

// notFoundResult mirrors the plain-text miss message for single-entity
// lookups.
func notFoundResult(kind, id string) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf("%s not found: %s", kind, id))
}
