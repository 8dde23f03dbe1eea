package slack

import (
	"fmt"
	"time"

	"github.com/clubcricket/scorebook/internal/match"
	"github.com/clubcricket/scorebook/internal/upcoming"
	"github.com/slack-go/slack"
)

// formatInningsBreak creates the Slack message posted when the first innings closes.
func (s *Notifier) formatInningsBreak(m *match.Match, inn *match.Innings) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏏 Innings break! 🏏", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s %d/%d after %s overs", inn.BattingTeam, inn.TotalRuns, inn.TotalWickets, oversString(inn))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	targetText := fmt.Sprintf("%s need %d to win", inn.BowlingTeam, inn.TotalRuns+1)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", targetText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatResultNotification creates the Slack message for a finished match.
func (s *Notifier) formatResultNotification(m *match.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏏 Match finished! 🏏", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	title := fmt.Sprintf("%s vs %s", m.TeamA, m.TeamB)
	if m.Venue != "" {
		title += " at " + m.Venue
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", title, false, false), nil, nil))

	for _, inn := range m.Innings {
		line := fmt.Sprintf("%s: %d/%d (%s overs)", inn.BattingTeam, inn.TotalRuns, inn.TotalWickets, oversString(inn))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", line, false, false), nil, nil))
	}

	if m.ResultSummary != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", "🏆 "+m.ResultSummary, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatFixtureNotification creates the Slack message for a new upcoming fixture.
func (s *Notifier) formatFixtureNotification(fx *upcoming.Fixture) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏏 New fixture! 🏏", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("vs %s\n%s", fx.OpponentName, time.Unix(fx.MatchDate, 0).Format("Monday 02 Jan, 15:04"))
	if fx.Venue != "" {
		detailsText += "\n" + fx.Venue
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	contextText := fmt.Sprintf("%d overs. Submit your availability!", fx.Overs)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

func oversString(inn *match.Innings) string {
	if inn.CurrentBall == 0 {
		return fmt.Sprintf("%d", inn.CurrentOver)
	}
	return fmt.Sprintf("%d.%d", inn.CurrentOver, inn.CurrentBall)
}
