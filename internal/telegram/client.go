// Package telegram provides a client for sending notifications via Telegram Bot API.
// It formats detected viral spikes into human-readable messages and handles
// delivery with retry logic for reliability.
//
// The client supports Markdown formatting and includes error handling for
// common Telegram API issues like rate limiting and network failures.
package telegram

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Alert describes one viral spike to notify about
type Alert struct {
	VideoID      string
	VideoTitle   string
	ChannelName  string
	ViewsPerHour float64
	ViewsGained  uint64
	WindowStart  time.Time
	WindowEnd    time.Time
	DetectedAt   time.Time
}

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send sends a notification with the detected viral spikes
func (c *Client) Send(alerts []Alert) error {
	message := c.formatMessage(alerts)

	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2" // Use MarkdownV2 for better escaping support

	// Send with retry
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage formats viral spikes into a Telegram message
func (c *Client) formatMessage(alerts []Alert) string {
	message := "🚨 *Viral Spikes Detected*\n\n"

	// Show detected time once at the top
	if len(alerts) > 0 {
		dateStr := escapeMarkdownV2(alerts[0].DetectedAt.Format("2006-01-02 15:04:05"))
		message += fmt.Sprintf("📅 Detected: %s\n\n", dateStr)
	}

	for i, alert := range alerts {
		// Clickable hyperlink to the video; escape the title but not the URL
		escapedTitle := escapeMarkdownV2(alert.VideoTitle)
		titleLink := fmt.Sprintf("[%s](https://www.youtube.com/watch?v=%s)", escapedTitle, alert.VideoID)

		rateStr := escapeMarkdownV2(fmt.Sprintf("%s views/hour", humanize.CommafWithDigits(alert.ViewsPerHour, 0)))
		gainedStr := escapeMarkdownV2(humanize.Comma(int64(alert.ViewsGained)))
		windowStr := escapeMarkdownV2(formatDuration(alert.WindowEnd.Sub(alert.WindowStart)))

		message += fmt.Sprintf("%d\\. %s\n", i+1, titleLink)

		if alert.ChannelName != "" {
			escapedChannel := escapeMarkdownV2(alert.ChannelName)
			message += fmt.Sprintf("   📺 Channel: %s\n", escapedChannel)
		}

		message += fmt.Sprintf("   📈 Rate: *%s* \\(\\+%s views\\)\n", rateStr, gainedStr)
		message += fmt.Sprintf("   ⏱ Window: %s\n\n", windowStr)
	}

	return message
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !

	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	if hours >= 1 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
