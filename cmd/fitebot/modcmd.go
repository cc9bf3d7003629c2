/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Every handler here is reached only after fiteCmdHandler has checked the
// invoker's permissions.

func requiredStrings(inter *discordgo.Interaction,
	names ...string) ([]string, bool) {

	opts := subOptions(inter)
	ret := make([]string, 0, len(names))
	for _, n := range names {
		opt, ok := opts[n]
		if !ok || opt.StringValue() == "" {
			return nil, false
		}
		ret = append(ret, opt.StringValue())
	}
	return ret, true
}

func modForceWinCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	opt, ok := subOptions(inter)["player"]
	if !ok {
		return ephemeralResponse("Please provide the player to award the win to.")
	}
	winner := opt.UserValue(nil).ID

	res, err := engine.ForceWin(ctx, winner)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}
	log.Printf("fitebot.forcewin: %v awarded %v the win over %v", self,
		res.Winner(), res.Loser())

	return publicResponse("A moderator settled this match.\n" +
		resolutionMessage(res))
}

func modCancelMatchCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	opt, ok := subOptions(inter)["player"]
	if !ok {
		return ephemeralResponse("Please provide the player whose match to cancel.")
	}

	m, err := engine.CancelMatch(ctx, opt.UserValue(nil).ID)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}
	log.Printf("fitebot.cancelmatch: %v cancelled %v", self, m.ID)

	return publicResponse(fmt.Sprintf("A moderator cancelled the match between %v and %v.",
		mention(m.Initiator), mention(m.Challenged)))
}

func modAddGameCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	args, ok := requiredStrings(inter, "title", "shorthand")
	if !ok {
		return ephemeralResponse("Please provide a title and a shorthand.")
	}

	g, err := engine.AddGame(ctx, args[0], args[1])
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return ephemeralResponse(fmt.Sprintf("Added **%v** (%v).", g.Title,
		g.Shorthand))
}

func modRemoveGameCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	args, ok := requiredStrings(inter, "title")
	if !ok {
		return ephemeralResponse("Please provide the game's full title.")
	}

	if err := engine.RemoveGame(ctx, args[0]); err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return ephemeralResponse(fmt.Sprintf("Removed **%v** and every rating for it.",
		args[0]))
}

func modAddGenreCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	args, ok := requiredStrings(inter, "genre")
	if !ok {
		return ephemeralResponse("Please provide a genre.")
	}

	if err := engine.AddGenre(ctx, args[0]); err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return ephemeralResponse(fmt.Sprintf("Added genre '%v'.", args[0]))
}

func modRemoveGenreCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	args, ok := requiredStrings(inter, "genre")
	if !ok {
		return ephemeralResponse("Please provide a genre.")
	}

	if err := engine.RemoveGenre(ctx, args[0]); err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return ephemeralResponse(fmt.Sprintf("Removed genre '%v' from the list and from every game.",
		args[0]))
}

func modAddGenreToGameCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	args, ok := requiredStrings(inter, "game", "genre")
	if !ok {
		return ephemeralResponse("Please provide a game and a genre.")
	}

	if err := engine.AddGenreToGame(ctx, args[0], args[1]); err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return ephemeralResponse(fmt.Sprintf("Tagged '%v' with '%v'.", args[0],
		args[1]))
}

func modRemoveGenreFromGameCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	args, ok := requiredStrings(inter, "game", "genre")
	if !ok {
		return ephemeralResponse("Please provide a game and a genre.")
	}

	if err := engine.RemoveGenreFromGame(ctx, args[0], args[1]); err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return ephemeralResponse(fmt.Sprintf("Removed '%v' from '%v'.", args[1],
		args[0]))
}
