/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/fitebot/fite"
)

type FiteSubCommand string

const (
	FiteHelpCmd       FiteSubCommand = "help"
	FiteAboutCmd      FiteSubCommand = "about"
	FiteRegisterCmd   FiteSubCommand = "register"
	FiteRatingCmd     FiteSubCommand = "rating"
	FiteChallengeCmd  FiteSubCommand = "challenge"
	FiteAcceptCmd     FiteSubCommand = "accept"
	FiteDeclineCmd    FiteSubCommand = "decline"
	FiteReportWinCmd  FiteSubCommand = "reportwin"
	FiteReportLossCmd FiteSubCommand = "reportloss"
	FiteConfirmCmd    FiteSubCommand = "confirm"
	FiteCancelCmd     FiteSubCommand = "cancel"
	FiteMatchCmd      FiteSubCommand = "match"
	FiteHistoryCmd    FiteSubCommand = "history"
	FiteListGamesCmd  FiteSubCommand = "listgames"
	FiteListGenresCmd FiteSubCommand = "listgenres"

	FiteForceWinCmd            FiteSubCommand = "forcewin"
	FiteCancelMatchCmd         FiteSubCommand = "cancelmatch"
	FiteAddGameCmd             FiteSubCommand = "addgame"
	FiteRemoveGameCmd          FiteSubCommand = "removegame"
	FiteAddGenreCmd            FiteSubCommand = "addgenre"
	FiteRemoveGenreCmd         FiteSubCommand = "removegenre"
	FiteAddGenreToGameCmd      FiteSubCommand = "addgenretogame"
	FiteRemoveGenreFromGameCmd FiteSubCommand = "removegenrefromgame"
)

var fiteSubCmdHdlrs = map[FiteSubCommand]CmdHandler{
	FiteHelpCmd:       fiteHelpCmdHandler,
	FiteAboutCmd:      fiteAboutCmdHandler,
	FiteRegisterCmd:   fiteRegisterCmdHandler,
	FiteRatingCmd:     fiteRatingCmdHandler,
	FiteChallengeCmd:  fiteChallengeCmdHandler,
	FiteAcceptCmd:     fiteAcceptCmdHandler,
	FiteDeclineCmd:    fiteDeclineCmdHandler,
	FiteReportWinCmd:  fiteReportWinCmdHandler,
	FiteReportLossCmd: fiteReportLossCmdHandler,
	FiteConfirmCmd:    fiteConfirmCmdHandler,
	FiteCancelCmd:     fiteCancelCmdHandler,
	FiteMatchCmd:      fiteMatchCmdHandler,
	FiteHistoryCmd:    fiteHistoryCmdHandler,
	FiteListGamesCmd:  fiteListGamesCmdHandler,
	FiteListGenresCmd: fiteListGenresCmdHandler,

	FiteForceWinCmd:            modForceWinCmdHandler,
	FiteCancelMatchCmd:         modCancelMatchCmdHandler,
	FiteAddGameCmd:             modAddGameCmdHandler,
	FiteRemoveGameCmd:          modRemoveGameCmdHandler,
	FiteAddGenreCmd:            modAddGenreCmdHandler,
	FiteRemoveGenreCmd:         modRemoveGenreCmdHandler,
	FiteAddGenreToGameCmd:      modAddGenreToGameCmdHandler,
	FiteRemoveGenreFromGameCmd: modRemoveGenreFromGameCmdHandler,
}

// sub-commands that require the Manage Messages permission
var modSubCmds = map[FiteSubCommand]bool{
	FiteForceWinCmd:            true,
	FiteCancelMatchCmd:         true,
	FiteAddGameCmd:             true,
	FiteRemoveGameCmd:          true,
	FiteAddGenreCmd:            true,
	FiteRemoveGenreCmd:         true,
	FiteAddGenreToGameCmd:      true,
	FiteRemoveGenreFromGameCmd: true,
}

func fiteCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := fiteHelpCmdHandler
	if len(data.Options) > 0 {
		sub := FiteSubCommand(data.Options[0].Name)
		if h, ok := fiteSubCmdHdlrs[sub]; ok {
			if modSubCmds[sub] && !isModerator(inter) {
				log.Printf("fitebot.fite: %v denied %v", invoker(inter), sub)
				return ephemeralResponse(fmt.Sprintf("You need the Manage Messages permission to use /fite %v.",
					sub))
			}
			hdlr = h
		}
	}
	return hdlr(ctx, inter)
}

//go:embed about.txt
var aboutText string

func fiteAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return ephemeralResponse(aboutText)
}

//go:embed help.md
var helpText string

func fiteHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	return ephemeralResponse(helpText)
}

// fiteRegisterCmdHandler registers the invoking user and, when configured,
// grants them the registered-player role.
func fiteRegisterCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	var content string
	_, err := engine.AddPlayer(ctx, self)
	if err == nil {
		content = fmt.Sprintf("Welcome, %v! You're registered; challenge someone with /fite challenge.",
			mention(self))
	} else if fite.CodeOf(err) == fite.AlreadyRegistered {
		content = fmt.Sprintf("Welcome back, %v! You were already registered.",
			mention(self))
	} else {
		return ephemeralResponse(errorMessage(err, self))
	}

	if botCfg.RegisteredRoleID != "" && inter.GuildID != "" && client != nil {
		err = client.GuildMemberRoleAdd(inter.GuildID, self,
			botCfg.RegisteredRoleID)
		if err != nil {
			log.Printf("fitebot.register: failed to grant role to %v: %v", self,
				err)
		}
	}

	return publicResponse(content)
}

// targetPlayer returns the "player" option when given, else the invoker.
func targetPlayer(inter *discordgo.Interaction) string {
	if opt, ok := subOptions(inter)["player"]; ok {
		return opt.UserValue(nil).ID
	}
	return invoker(inter)
}

func broadcast(inter *discordgo.Interaction) bool {
	if opt, ok := subOptions(inter)["broadcast"]; ok {
		return opt.BoolValue()
	}
	return false
}

func fiteRatingCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	target := targetPlayer(inter)
	p, err := engine.GetPlayer(target)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	var sb strings.Builder
	if opt, ok := subOptions(inter)["game"]; ok {
		g, err := engine.GetGame(opt.StringValue())
		if err != nil {
			return ephemeralResponse(errorMessage(err, self))
		}
		r, ok := p.Ranking(g.Title)
		if !ok {
			return ephemeralResponse(fmt.Sprintf("%v has no rating in %v.",
				mention(target), g.Title))
		}
		sb.WriteString(fmt.Sprintf("%v in **%v**: %.1f (RD %.1f, volatility %.4f, %v matches)\n",
			mention(target), g.Title, r.Rating, r.Deviation, r.Volatility,
			r.MatchesPlayed))
	} else {
		sb.WriteString(fmt.Sprintf("%v average rating: %.1f\n", mention(target),
			p.AverageRating))
		for _, title := range p.RankedGames() {
			r := p.Rankings[title]
			sb.WriteString(fmt.Sprintf("- %v: %.1f (RD %.1f, %v matches)\n",
				title, r.Rating, r.Deviation, r.MatchesPlayed))
		}
	}

	resp := ephemeralResponse(sb.String())
	if broadcast(inter) {
		resp.Data.Flags = 0
	}
	return resp
}

func fiteChallengeCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	opts := subOptions(inter)
	oppOpt, ok1 := opts["opponent"]
	gameOpt, ok2 := opts["game"]
	if !ok1 || !ok2 {
		return ephemeralResponse("Please provide an opponent and a game.")
	}
	opponent := oppOpt.UserValue(nil).ID

	m, err := engine.CreateChallenge(ctx, self, opponent, gameOpt.StringValue())
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return publicResponse(fmt.Sprintf("%v, %v has challenged you to **%v**! Use /fite accept or /fite decline.",
		mention(m.Challenged), mention(m.Initiator), m.Game))
}

func fiteAcceptCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	m, err := engine.AcceptChallenge(ctx, self)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return publicResponse(fmt.Sprintf("Match on: %v vs %v in **%v**. Report the result with /fite reportwin or /fite reportloss.",
		mention(m.Initiator), mention(m.Challenged), m.Game))
}

func fiteDeclineCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	m, err := engine.DeclineChallenge(ctx, self)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return publicResponse(fmt.Sprintf("%v declined the challenge from %v.",
		mention(m.Challenged), mention(m.Initiator)))
}

func fiteCancelCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	m, err := engine.CancelChallenge(ctx, self)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return publicResponse(fmt.Sprintf("%v withdrew the challenge to %v.",
		mention(m.Initiator), mention(m.Challenged)))
}

func fiteReportWinCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	m, err := engine.ReportWin(ctx, self)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return publicResponse(fmt.Sprintf("%v reports a win over %v in **%v**. %v, use /fite confirm to make it official.",
		mention(self), mention(m.Opponent(self)), m.Game,
		mention(m.Opponent(self))))
}

func fiteReportLossCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	res, err := engine.ReportLoss(ctx, self)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return publicResponse(resolutionMessage(res))
}

func fiteConfirmCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	res, err := engine.ConfirmWin(ctx, self)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}

	return publicResponse(resolutionMessage(res))
}

func fiteMatchCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	target := targetPlayer(inter)
	m, err := engine.GetPlayerMatch(target)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}
	if m == nil {
		return ephemeralResponse(fmt.Sprintf("%v doesn't have a match right now.",
			mention(target)))
	}

	content := fmt.Sprintf("%v vs %v in **%v** (%v)", mention(m.Initiator),
		mention(m.Challenged), m.Game, m.State)
	if m.PendingVictor != "" {
		content += fmt.Sprintf("; %v reported a win", mention(m.PendingVictor))
	}
	return ephemeralResponse(content)
}

func fiteHistoryCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	self := invoker(inter)
	target := targetPlayer(inter)
	p, err := engine.GetPlayer(target)
	if err != nil {
		return ephemeralResponse(errorMessage(err, self))
	}
	if len(p.Recent) == 0 {
		return ephemeralResponse(fmt.Sprintf("%v hasn't played any matches yet.",
			mention(target)))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recent matches for %v:\n", mention(target)))
	for _, r := range p.Recent {
		outcome := "L"
		if r.Victory {
			outcome = "W"
		}
		sb.WriteString(fmt.Sprintf("- %v vs %v in %v: %.1f -> %.1f (%v) %v\n",
			outcome, mention(r.Opponent), r.Game, r.OldRating, r.NewRating,
			signedDelta(r.Delta), r.ResolvedAt.Format("2006-01-02")))
	}

	resp := ephemeralResponse(sb.String())
	if broadcast(inter) {
		resp.Data.Flags = 0
	}
	return resp
}

func pageNum(inter *discordgo.Interaction) int {
	if opt, ok := subOptions(inter)["page"]; ok {
		return int(opt.IntValue())
	}
	return 1
}

func fiteListGamesCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	games := engine.Games()
	if len(games) == 0 {
		return ephemeralResponse("No games have been added yet.")
	}
	lines := make([]string, 0, len(games))
	for _, g := range games {
		line := fmt.Sprintf("- %v (%v)", g.Title, g.Shorthand)
		if len(g.Genres) > 0 {
			line += fmt.Sprintf(" [%v]", strings.Join(g.Genres, ", "))
		}
		lines = append(lines, line)
	}

	items, n, pages := page(lines, pageNum(inter))
	return ephemeralResponse(fmt.Sprintf("**Games** (page %v of %v)\n%v\n", n,
		pages, strings.Join(items, "\n")))
}

func fiteListGenresCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	genres := engine.Genres()
	if len(genres) == 0 {
		return ephemeralResponse("No genres have been added yet.")
	}
	lines := make([]string, 0, len(genres))
	for _, g := range genres {
		lines = append(lines, "- "+g)
	}

	items, n, pages := page(lines, pageNum(inter))
	return ephemeralResponse(fmt.Sprintf("**Genres** (page %v of %v)\n%v\n", n,
		pages, strings.Join(items, "\n")))
}
