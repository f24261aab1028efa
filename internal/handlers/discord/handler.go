package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/talesofclaude/quest-engine/internal/services"
)

// Handler handles all Discord interactions for the quest journal
type Handler struct {
	ServiceProvider *services.Provider
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ServiceProvider *services.Provider
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil || cfg.ServiceProvider == nil {
		panic("HandlerConfig and ServiceProvider are required")
	}

	return &Handler{
		ServiceProvider: cfg.ServiceProvider,
	}
}

// RegisterCommands registers all slash commands with Discord
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "quest",
			Description: "Quest journal commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "journal",
					Description: "Show your active quests and their progress",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "available",
					Description: "List quests you can start right now",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "start",
					Description: "Start an available quest",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Quest ID",
							Required:    true,
						},
					},
				},
				{
					Name:        "choices",
					Description: "Show the pending decision on a quest",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Quest ID",
							Required:    true,
						},
					},
				},
				{
					Name:        "choose",
					Description: "Resolve a pending decision on a quest",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Quest ID",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "choice",
							Description: "Choice ID",
							Required:    true,
						},
					},
				},
				{
					Name:        "abandon",
					Description: "Abandon an active quest, dropping its progress",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "id",
							Description: "Quest ID",
							Required:    true,
						},
					},
				},
				{
					Name:        "save",
					Description: "Save your quest progress",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
				{
					Name:        "load",
					Description: "Load your most recent save",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		log.Printf("Registered command: %s", cmd.Name)
	}

	return nil
}

// HandleInteraction handles all Discord interactions
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != "quest" || len(data.Options) == 0 {
		return
	}

	sub := data.Options[0]
	switch sub.Name {
	case "journal":
		h.handleJournal(s, i)
	case "available":
		h.handleAvailable(s, i)
	case "start":
		h.handleStart(s, i, stringOption(sub, "id"))
	case "choices":
		h.handleChoices(s, i, stringOption(sub, "id"))
	case "choose":
		h.handleChoose(s, i, stringOption(sub, "id"), stringOption(sub, "choice"))
	case "abandon":
		h.handleAbandon(s, i, stringOption(sub, "id"))
	case "save":
		h.handleSave(s, i)
	case "load":
		h.handleLoad(s, i)
	}
}

func stringOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func (h *Handler) handleJournal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	active := h.ServiceProvider.QuestService.GetActiveQuests()
	if len(active) == 0 {
		respond(s, i, "Your journal is empty. Try `/quest available`.")
		return
	}

	embed := journalEmbed(active)
	respondEmbed(s, i, embed)
}

func (h *Handler) handleAvailable(s *discordgo.Session, i *discordgo.InteractionCreate) {
	available := h.ServiceProvider.QuestService.GetAvailableQuests()
	if len(available) == 0 {
		respond(s, i, "No quests available right now.")
		return
	}

	embed := availableEmbed(available)
	respondEmbed(s, i, embed)
}

func (h *Handler) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, questID string) {
	if !h.ServiceProvider.QuestService.StartQuest(questID) {
		respond(s, i, fmt.Sprintf("Cannot start quest `%s`: unknown, already started, or prerequisites unmet.", questID))
		return
	}

	q := h.ServiceProvider.QuestService.GetQuestByID(questID)
	respond(s, i, fmt.Sprintf("Started **%s**.", q.Name()))
}

func (h *Handler) handleChoices(s *discordgo.Session, i *discordgo.InteractionCreate, questID string) {
	choices := h.ServiceProvider.QuestService.PendingChoices(questID)
	if len(choices) == 0 {
		respond(s, i, fmt.Sprintf("No decision pending on `%s`.", questID))
		return
	}

	q := h.ServiceProvider.QuestService.GetQuestByID(questID)
	respondEmbed(s, i, choicesEmbed(q, choices))
}

func (h *Handler) handleChoose(s *discordgo.Session, i *discordgo.InteractionCreate, questID, choiceID string) {
	if !h.ServiceProvider.QuestService.MakeChoice(questID, choiceID) {
		respond(s, i, fmt.Sprintf("Choice `%s` is not pending on quest `%s`.", choiceID, questID))
		return
	}

	q := h.ServiceProvider.QuestService.GetQuestByID(questID)
	respondEmbed(s, i, questEmbed(q))
}

func (h *Handler) handleAbandon(s *discordgo.Session, i *discordgo.InteractionCreate, questID string) {
	if !h.ServiceProvider.QuestService.AbandonQuest(questID) {
		respond(s, i, fmt.Sprintf("Quest `%s` is not active.", questID))
		return
	}
	respond(s, i, fmt.Sprintf("Abandoned quest `%s`. Its progress has been reset.", questID))
}

func (h *Handler) handleSave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	playerID := interactionUserID(i)
	snapshot, err := h.ServiceProvider.QuestService.Save(context.Background(), playerID)
	if err != nil {
		log.Printf("Error saving quest state for %s: %v", playerID, err)
		respond(s, i, "Failed to save quest progress.")
		return
	}
	respond(s, i, fmt.Sprintf("Progress saved (`%s`).", snapshot.ID))
}

func (h *Handler) handleLoad(s *discordgo.Session, i *discordgo.InteractionCreate) {
	playerID := interactionUserID(i)
	if err := h.ServiceProvider.QuestService.LoadLatest(context.Background(), playerID); err != nil {
		log.Printf("Error loading quest state for %s: %v", playerID, err)
		respond(s, i, "No save found, or loading failed.")
		return
	}
	respond(s, i, "Progress restored from your latest save.")
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}
