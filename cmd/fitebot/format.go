/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/fitebot/fite"
)

const listPageSize = 10

func ephemeralResponse(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: truncateContent(content),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

func publicResponse(content string) *discordgo.InteractionResponse {
	resp := ephemeralResponse(content)
	resp.Data.Flags = 0
	return resp
}

// invoker returns the id of the user who ran the command.
func invoker(inter *discordgo.Interaction) string {
	if inter.Member != nil && inter.Member.User != nil {
		return inter.Member.User.ID
	}
	if inter.User != nil {
		return inter.User.ID
	}
	return ""
}

func isModerator(inter *discordgo.Interaction) bool {
	if inter.Member == nil {
		return false
	}
	return inter.Member.Permissions&discordgo.PermissionManageMessages != 0
}

// subOptions returns the options of the invoked sub-command by name.
func subOptions(
	inter *discordgo.Interaction) map[string]*discordgo.ApplicationCommandInteractionDataOption {

	ret := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return ret
	}
	for _, opt := range data.Options[0].Options {
		ret[opt.Name] = opt
	}
	return ret
}

func mention(id string) string {
	return fmt.Sprintf("<@%v>", id)
}

// errorMessage turns an engine error into something to show self.
func errorMessage(err error, self string) string {
	var fe *fite.Error
	if !errors.As(err, &fe) {
		log.Printf("fitebot.err: unexpected error: %v", err)
		return fmt.Sprintf("Something went wrong: %v", err)
	}

	who := mention(fe.Subject)
	if fe.Subject == fite.Canonical(self) {
		who = "You"
	}

	switch fe.Code {
	case fite.NotRegistered:
		if who == "You" {
			return "You are not registered. Use /fite register first."
		}
		return fmt.Sprintf("%v is not registered.", who)
	case fite.AlreadyRegistered:
		return "You are already registered."
	case fite.InvalidName:
		return "A name is required."
	case fite.UnknownGame:
		return fmt.Sprintf("There is no game called '%v'. Try /fite listgames.",
			fe.Subject)
	case fite.GameTitleTaken:
		return fmt.Sprintf("A game called '%v' already exists.", fe.Subject)
	case fite.GameShorthandTaken:
		return fmt.Sprintf("The name '%v' is already used by another game.",
			fe.Subject)
	case fite.GameInUse:
		return fmt.Sprintf("'%v' has matches in progress; cancel or finish them first.",
			fe.Subject)
	case fite.SelfReference:
		if fe.Op == "confirmwin" {
			return "You reported the win; your opponent has to confirm it."
		}
		return "You can't challenge yourself."
	case fite.AlreadyInMatch:
		if who == "You" {
			return "You are already in a match."
		}
		return fmt.Sprintf("%v is already in a match.", who)
	case fite.NoCurrentMatch:
		if who == "You" {
			return "You don't have a match right now."
		}
		return fmt.Sprintf("%v doesn't have a match right now.", who)
	case fite.WrongRole:
		switch fe.Op {
		case "cancelchallenge":
			return "Only the player who issued the challenge can cancel it."
		default:
			return "You issued this challenge; your opponent has to respond to it."
		}
	case fite.WrongState:
		switch fe.Op {
		case "acceptchallenge", "declinechallenge", "cancelchallenge":
			return "That match has already started."
		default:
			return "That match hasn't been accepted yet."
		}
	case fite.NoPendingVictor:
		return "Nobody has reported a win yet. Use /fite reportwin or /fite reportloss."
	case fite.GenreNotFound:
		return fmt.Sprintf("There is no genre called '%v'.", fe.Subject)
	case fite.GenreDuplicate:
		return fmt.Sprintf("The genre '%v' already exists.", fe.Subject)
	case fite.GenreAlreadyOnGame:
		return fmt.Sprintf("That game is already tagged '%v'.", fe.Subject)
	case fite.GenreNotOnGame:
		return fmt.Sprintf("That game isn't tagged '%v'.", fe.Subject)
	case fite.GenreSlotsFull:
		return fmt.Sprintf("'%v' already has the maximum number of genres.",
			fe.Subject)
	case fite.PersistenceFailure:
		log.Printf("fitebot.err: %v", err)
		return "The result could not be saved; nothing changed. Please try again."
	case fite.CalculationFailed:
		log.Printf("fitebot.err: %v", err)
		return "The rating calculation failed for this match; it is still open. Ask a moderator for help."
	}

	log.Printf("fitebot.err: unhandled error: %v", err)
	return fmt.Sprintf("Something went wrong: %v", err)
}

// page returns the items on page (1-based) along with the clamped page and
// page count.
func page(items []string, pageNum int) ([]string, int, int) {
	pages := (len(items) + listPageSize - 1) / listPageSize
	if pages == 0 {
		pages = 1
	}
	if pageNum < 1 {
		pageNum = 1
	} else if pageNum > pages {
		pageNum = pages
	}
	start := (pageNum - 1) * listPageSize
	end := start + listPageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], pageNum, pages
}

func signedDelta(d float64) string {
	return fmt.Sprintf("%+.1f", d)
}

func resolutionMessage(res *fite.Resolution) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v defeated %v in **%v**!\n",
		mention(res.Winner()), mention(res.Loser()), res.Match.Game))
	for _, name := range []string{res.Winner(), res.Loser()} {
		r, _ := res.ResultFor(name)
		sb.WriteString(fmt.Sprintf("%v: %.1f -> %.1f (%v)\n", mention(name),
			r.OldRating, r.NewRating, signedDelta(r.Delta)))
	}
	return sb.String()
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
