// Command inspect dumps the chat document store for debugging: sessions,
// message streams and presence records.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"glue-connect/domain"
	"glue-connect/repositories"
)

func main() {
	dbPath := flag.String("db", "./data", "Path to the badger store")
	uid := flag.String("uid", "", "List sessions of this user")
	sessionID := flag.String("session", "", "Dump the message stream of this session")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	switch {
	case *sessionID != "":
		dumpMessages(db, logger, *sessionID)
	case *uid != "":
		dumpSessions(db, logger, *uid)
	default:
		fmt.Println("Usage: inspect -db <path> (-uid <uid> | -session <id>)")
	}
}

func dumpSessions(db *badger.DB, logger *slog.Logger, uid string) {
	sessions, err := repositories.NewSessionRepository(db, logger).ListFor(uid)
	if err != nil {
		log.Fatal("Error while listing sessions: ", err)
	}
	presences := repositories.NewPresenceRepository(db, logger)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Session", "With", "Online", "Last Message", "Updated At"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, s := range sessions {
		otherUID := s.OtherParticipant(uid)
		online := "offline"
		if p, err := presences.Get(otherUID); err == nil && p.Online {
			online = color.Green.Sprint("online")
		}
		table.Append([]string{
			s.ID,
			fmt.Sprintf("%s (%s)", s.ParticipantNames[otherUID], otherUID),
			online,
			s.LastMessage,
			s.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
}

func dumpMessages(db *badger.DB, logger *slog.Logger, sessionID string) {
	messages, err := repositories.NewMessageRepository(db, logger).List(sessionID)
	if err != nil {
		log.Fatal("Error while reading messages: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "From", "Text"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	rows := lo.Map(messages, func(m domain.Message, _ int) []string {
		return []string{m.CreatedAt.Format("15:04:05.000"), m.From, m.Text}
	})
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	color.Gray.Printf("%d message(s)\n", len(messages))
}
