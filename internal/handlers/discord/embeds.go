package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/talesofclaude/quest-engine/internal/domain/quest"
)

const (
	colorJournal   = 0x5865F2
	colorAvailable = 0x57F287
	colorDecision  = 0xFEE75C
	colorCompleted = 0xEB459E
)

func journalEmbed(active []*quest.Quest) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Quest Journal",
		Color: colorJournal,
	}
	for _, q := range active {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s (`%s`)", q.Name(), q.ID()),
			Value: objectiveLines(q),
		})
	}
	return embed
}

func availableEmbed(available []*quest.Quest) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, q := range available {
		fmt.Fprintf(&sb, "**%s** (`%s`)\n%s\n", q.Name(), q.ID(), q.Description())
	}
	return &discordgo.MessageEmbed{
		Title:       "Available Quests",
		Description: sb.String(),
		Color:       colorAvailable,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Start one with /quest start",
		},
	}
}

func choicesEmbed(q *quest.Quest, choices []quest.Choice) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, c := range choices {
		fmt.Fprintf(&sb, "`%s` — %s\n", c.ID, c.Text)
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s — Decision", q.Name()),
		Description: sb.String(),
		Color:       colorDecision,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Resolve with /quest choose",
		},
	}
}

func questEmbed(q *quest.Quest) *discordgo.MessageEmbed {
	color := colorJournal
	if q.Status() == quest.StatusCompleted {
		color = colorCompleted
	}
	return &discordgo.MessageEmbed{
		Title:       q.Name(),
		Description: q.Description(),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: string(q.Status()), Inline: true},
			{Name: "Objectives", Value: objectiveLines(q)},
		},
	}
}

func objectiveLines(q *quest.Quest) string {
	objectives := q.Objectives()
	if len(objectives) == 0 {
		return "_none_"
	}

	var sb strings.Builder
	for _, o := range objectives {
		mark := "▫️"
		if o.IsCompleted {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s %s (%d/%d)", mark, o.Description, o.CurrentProgress, o.Quantity)
		if !o.IsCompleted && len(o.Choices) > 0 {
			sb.WriteString(" — decision pending")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
