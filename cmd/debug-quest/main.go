// debug-quest walks a quest catalog from the command line: list quests, start
// one, feed it progress events, and resolve decisions, printing journal state
// after every step. Useful for checking content files before wiring them into
// a game build.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/talesofclaude/quest-engine/internal/content"
	"github.com/talesofclaude/quest-engine/internal/domain/quest"
	"github.com/talesofclaude/quest-engine/internal/services"
)

type printingInventory struct{}

func (printingInventory) AddItem(itemID string, quantity int) {
	fmt.Printf("  [inventory] +%d %s\n", quantity, itemID)
}

type printingExperience struct{}

func (printingExperience) AddExperience(amount int) {
	fmt.Printf("  [exp] +%d\n", amount)
}

type printingDialogue struct{}

func (printingDialogue) QueueDialogue(dialogueID string) {
	fmt.Printf("  [dialogue] %s\n", dialogueID)
}

func main() {
	catalogPath := flag.String("catalog", "data/quests.yaml", "quest YAML file or directory")
	flag.Parse()

	catalog, err := content.Load(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load quest catalog: %v", err)
	}
	fmt.Printf("Loaded %d quests from %s\n", catalog.Len(), *catalogPath)

	provider := services.NewProvider(&services.ProviderConfig{
		Catalog:    catalog,
		Inventory:  printingInventory{},
		Experience: printingExperience{},
		Dialogue:   printingDialogue{},
	})
	svc := provider.QuestService

	fmt.Println("Commands: list | journal | start <id> | event <type> <target> [n] | choices <id> | choose <id> <choice> | complete <id> | abandon <id> | flag <key> <bool> | rep <faction> <delta> | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return

		case "list":
			for _, q := range svc.GetAllQuests() {
				fmt.Printf("  %-24s %-12s %s\n", q.ID(), q.Status(), q.Name())
			}

		case "journal":
			for _, q := range svc.GetActiveQuests() {
				printQuest(q)
			}

		case "start":
			if len(fields) < 2 {
				fmt.Println("usage: start <id>")
				continue
			}
			if svc.StartQuest(fields[1]) {
				printQuest(svc.GetQuestByID(fields[1]))
			} else {
				fmt.Println("  cannot start (unknown id, already started, or prerequisites unmet)")
			}

		case "event":
			if len(fields) < 3 {
				fmt.Println("usage: event <type> <target> [amount]")
				continue
			}
			objType, ok := quest.ParseObjectiveType(fields[1])
			if !ok {
				fmt.Printf("  unknown objective type %q\n", fields[1])
				continue
			}
			amount := 1
			if len(fields) > 3 {
				if n, err := strconv.Atoi(fields[3]); err == nil {
					amount = n
				}
			}
			completed := svc.UpdateQuestProgress(objType, fields[2], amount)
			for _, q := range completed {
				fmt.Printf("  completed: %s\n", q.ID())
			}

		case "choices":
			if len(fields) < 2 {
				fmt.Println("usage: choices <id>")
				continue
			}
			choices := svc.PendingChoices(fields[1])
			if len(choices) == 0 {
				fmt.Println("  no decision pending")
				continue
			}
			for _, c := range choices {
				fmt.Printf("  %-24s %s\n", c.ID, c.Text)
			}

		case "choose":
			if len(fields) < 3 {
				fmt.Println("usage: choose <id> <choice>")
				continue
			}
			if svc.MakeChoice(fields[1], fields[2]) {
				printQuest(svc.GetQuestByID(fields[1]))
			} else {
				fmt.Println("  choice not pending")
			}

		case "complete":
			if len(fields) < 2 {
				fmt.Println("usage: complete <id>")
				continue
			}
			if !svc.CompleteQuest(fields[1]) {
				fmt.Println("  not completed yet, or rewards already granted")
			}

		case "abandon":
			if len(fields) < 2 {
				fmt.Println("usage: abandon <id>")
				continue
			}
			if !svc.AbandonQuest(fields[1]) {
				fmt.Println("  quest is not active")
			}

		case "flag":
			if len(fields) < 3 {
				fmt.Println("usage: flag <key> <true|false>")
				continue
			}
			provider.FlagService.SetFlag(fields[1], fields[2] == "true")

		case "rep":
			if len(fields) < 3 {
				fmt.Println("usage: rep <faction> <delta>")
				continue
			}
			delta, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("  delta must be an integer")
				continue
			}
			provider.ReputationService.ChangeReputation(fields[1], delta)

		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func printQuest(q *quest.Quest) {
	if q == nil {
		return
	}
	fmt.Printf("  %s [%s]", q.Name(), q.Status())
	if q.CurrentBranchID() != "" {
		fmt.Printf(" branch=%s", q.CurrentBranchID())
	}
	fmt.Println()
	for _, o := range q.Objectives() {
		mark := " "
		if o.IsCompleted {
			mark = "x"
		}
		fmt.Printf("    [%s] %s (%d/%d)\n", mark, o.ID, o.CurrentProgress, o.Quantity)
	}
}
