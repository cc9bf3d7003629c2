/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import "github.com/bwmarrin/discordgo"

func userOption(name string, desc string,
	required bool) *discordgo.ApplicationCommandOption {

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: desc,
		Required:    required,
	}
}

func stringOption(name string, desc string,
	required bool) *discordgo.ApplicationCommandOption {

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: desc,
		Required:    required,
	}
}

func pageOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "page",
		Description: "Page number (default is 1)",
		Required:    false,
	}
}

func broadcastOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
}

func subCommand(name FiteSubCommand, desc string,
	opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        string(name),
		Description: desc,
		Options:     opts,
	}
}

// fiteCommand describes /fite and all of its sub-commands for registration.
func fiteCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        string(FiteCmd),
		Description: "Challenge players and track ratings; try /fite help to start",
		Options: []*discordgo.ApplicationCommandOption{
			subCommand(FiteHelpCmd, "Show usage for fite"),
			subCommand(FiteAboutCmd, "Show information about fitebot"),
			subCommand(FiteRegisterCmd, "Register as a player"),
			subCommand(FiteRatingCmd, "Show a rating",
				stringOption("game", "Game title or shorthand (default is your average)", false),
				userOption("player", "Player to look up (default is you)", false),
				broadcastOption()),
			subCommand(FiteChallengeCmd, "Challenge another player",
				userOption("opponent", "Player to challenge", true),
				stringOption("game", "Game title or shorthand", true)),
			subCommand(FiteAcceptCmd, "Accept the challenge you received"),
			subCommand(FiteDeclineCmd, "Decline the challenge you received"),
			subCommand(FiteReportWinCmd, "Report that you won your match"),
			subCommand(FiteReportLossCmd, "Report that you lost your match"),
			subCommand(FiteConfirmCmd, "Confirm your opponent's reported win"),
			subCommand(FiteCancelCmd, "Withdraw a challenge you issued"),
			subCommand(FiteMatchCmd, "Show a current match",
				userOption("player", "Player to look up (default is you)", false)),
			subCommand(FiteHistoryCmd, "Show recent results",
				userOption("player", "Player to look up (default is you)", false),
				broadcastOption()),
			subCommand(FiteListGamesCmd, "List games", pageOption()),
			subCommand(FiteListGenresCmd, "List genres", pageOption()),
			subCommand(FiteForceWinCmd, "Moderator: award a match to a player",
				userOption("player", "Player to award the win to", true)),
			subCommand(FiteCancelMatchCmd, "Moderator: cancel a player's match",
				userOption("player", "Player whose match to cancel", true)),
			subCommand(FiteAddGameCmd, "Moderator: add a game",
				stringOption("title", "Full title", true),
				stringOption("shorthand", "Short name", true)),
			subCommand(FiteRemoveGameCmd, "Moderator: remove a game",
				stringOption("title", "Full title", true)),
			subCommand(FiteAddGenreCmd, "Moderator: add a genre",
				stringOption("genre", "Genre name", true)),
			subCommand(FiteRemoveGenreCmd, "Moderator: remove a genre",
				stringOption("genre", "Genre name", true)),
			subCommand(FiteAddGenreToGameCmd, "Moderator: tag a game with a genre",
				stringOption("game", "Game title or shorthand", true),
				stringOption("genre", "Genre name", true)),
			subCommand(FiteRemoveGenreFromGameCmd, "Moderator: untag a game",
				stringOption("game", "Game title or shorthand", true),
				stringOption("genre", "Genre name", true)),
		},
	}
}
