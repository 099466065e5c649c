package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/bwmarrin/discordgo"

	"stonkbot/internal/game"
)

const (
	colorGold   = 0xF1C40F
	colorGreen  = 0x2ECC71
	colorBlue   = 0x3498DB
	colorPurple = 0x9B59B6
	colorRed    = 0xE74C3C
)

type bot struct {
	svc         *game.Service
	log         *slog.Logger
	prefix      string
	dailyReward float64
}

func newBot(svc *game.Service, logger *slog.Logger, prefix string, dailyReward float64) *bot {
	return &bot{
		svc:         svc,
		log:         logger,
		prefix:      prefix,
		dailyReward: dailyReward,
	}
}

func (b *bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, b.prefix) {
		return
	}
	fields := strings.Fields(strings.TrimPrefix(content, b.prefix))
	if len(fields) == 0 {
		return
	}
	cmd, args := fields[0], fields[1:]
	userID := m.Author.ID

	switch cmd {
	case "주식목록", "주식":
		b.sendStockList(s, m)
	case "주식구매":
		b.sendTrade(s, m, userID, args, "buy")
	case "주식판매":
		b.sendTrade(s, m, userID, args, "sell")
	case "내자산", "내주식", "나":
		b.sendPortfolio(s, m, userID)
	case "랭킹":
		b.sendRanking(s, m, userID)
	case "출석":
		b.sendDaily(s, m, userID)
	case "슬롯":
		b.sendSlots(s, m, userID, args)
	case "주사위":
		b.sendDice(s, m, userID, args)
	case "동전":
		b.sendCoinFlip(s, m, userID, args)
	case "제비뽑기", "재비", "뽑기":
		b.sendDraw(s, m, args)
	case "도움말", "도움":
		b.sendHelp(s, m)
	}
}

func (b *bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	if _, err := s.ChannelMessageSend(m.ChannelID, text); err != nil {
		b.log.Warn("send failed", "channel", m.ChannelID, "err", err)
	}
}

func (b *bot) replyEmbed(s *discordgo.Session, m *discordgo.MessageCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		b.log.Warn("send embed failed", "channel", m.ChannelID, "err", err)
	}
}

func (b *bot) sendStockList(s *discordgo.Session, m *discordgo.MessageCreate) {
	var lines []string
	for _, st := range b.svc.Stocks() {
		symbol := "➖"
		if st.ChangePercent > 0 {
			symbol = "🔺"
		} else if st.ChangePercent < 0 {
			symbol = "🔻"
		}
		lines = append(lines, fmt.Sprintf("**%s** (%s): `$%.2f` (%s %+.2f%%) | %d/%d주",
			st.Name, st.Sector, st.Price, symbol, st.ChangePercent, st.AvailableShares, st.TotalShares))
	}
	desc := "현재 주식 정보가 없습니다."
	if len(lines) > 0 {
		desc = strings.Join(lines, "\n")
	}
	if ev, ok := b.svc.CurrentEvent(); ok {
		desc += fmt.Sprintf("\n\n📢 시장 이벤트: **%s** 섹터 ×%.2f", ev.Sector, ev.Multiplier)
	}
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title:       "📈 현재 주식 목록 📈",
		Description: desc,
		Color:       colorGold,
	})
}

func (b *bot) sendTrade(s *discordgo.Session, m *discordgo.MessageCreate, userID string, args []string, side string) {
	if len(args) != 2 {
		b.reply(s, m, fmt.Sprintf("사용법: `%s주식%s <종목> <수량|all>`", b.prefix, map[string]string{"buy": "구매", "sell": "판매"}[side]))
		return
	}
	qty, err := game.ParseQuantity(args[1])
	if err != nil {
		b.reply(s, m, "❌ 수량은 0보다 큰 숫자 또는 'all'이어야 합니다.")
		return
	}

	if side == "buy" {
		out, err := b.svc.Buy(userID, args[0], qty)
		if err != nil {
			b.reply(s, m, "❌ 구매 실패: "+err.Error())
			return
		}
		b.replyEmbed(s, m, &discordgo.MessageEmbed{
			Title: "✅ 주식 구매 완료",
			Color: colorGreen,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "종목", Value: out.Stock, Inline: true},
				{Name: "수량", Value: fmt.Sprintf("%d주", out.Quantity), Inline: true},
				{Name: "총 구매액 (수수료 포함)", Value: fmt.Sprintf("`$%.2f` (수수료 $%.2f)", out.TotalCost, out.Fee)},
				{Name: "현재 잔액", Value: fmt.Sprintf("`$%.2f`", out.NewBalance)},
			},
		})
		return
	}

	out, err := b.svc.Sell(userID, args[0], qty)
	if err != nil {
		b.reply(s, m, "❌ 판매 실패: "+err.Error())
		return
	}
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title: "✅ 주식 판매 완료",
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "종목", Value: out.Stock, Inline: true},
			{Name: "수량", Value: fmt.Sprintf("%d주", out.Quantity), Inline: true},
			{Name: "총 판매액 (수수료 차감)", Value: fmt.Sprintf("`$%.2f` (수수료 $%.2f)", out.TotalRevenue, out.Fee)},
			{Name: "현재 잔액", Value: fmt.Sprintf("`$%.2f`", out.NewBalance)},
		},
	})
}

func (b *bot) sendPortfolio(s *discordgo.Session, m *discordgo.MessageCreate, userID string) {
	p := b.svc.Portfolio(userID)
	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 **현금 잔액**: `$%.2f`\n", p.Balance)
	if len(p.Holdings) == 0 {
		sb.WriteString("📭 보유 주식이 없습니다.")
	} else {
		fmt.Fprintf(&sb, "📈 **주식 가치**: `$%.2f`\n", p.TotalCurrentValue)
		fmt.Fprintf(&sb, "💎 **총 자산**: `$%.2f`\n", p.TotalAssets)
		arrow := "▲"
		if p.TotalProfitPercent < 0 {
			arrow = "▼"
		}
		fmt.Fprintf(&sb, "📊 **총 수익률**: `%s %+.2f%%`\n\n**보유 목록**\n", arrow, p.TotalProfitPercent)
		for _, h := range p.Holdings {
			fmt.Fprintf(&sb, "• **%s** %d주 | 구매가 $%.2f | 현재가 $%.2f | %+.2f%%\n",
				h.Stock, h.Quantity, h.AverageCost, h.CurrentPrice, h.ProfitPercent)
		}
	}
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title:       "💰 자산 현황",
		Description: sb.String(),
		Color:       colorPurple,
	})
}

func (b *bot) sendRanking(s *discordgo.Session, m *discordgo.MessageCreate, userID string) {
	ranking := b.svc.Ranking()
	if len(ranking) == 0 {
		b.reply(s, m, "📊 아직 등록된 사용자가 없습니다!")
		return
	}
	medals := []string{"🥇", "🥈", "🥉"}
	var lines []string
	for i, entry := range ranking {
		if i >= 10 {
			break
		}
		label := fmt.Sprintf("**%d위**", entry.Rank)
		if i < len(medals) {
			label = medals[i]
		}
		lines = append(lines, fmt.Sprintf("%s <@%s> - `₩%.0f`", label, entry.UserID, entry.TotalAssets))
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🏆 주식왕 랭킹 🏆",
		Description: strings.Join(lines, "\n"),
		Color:       colorGold,
	}
	for _, entry := range ranking {
		if entry.UserID == userID {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("현재 순위: %d위", entry.Rank),
			}
			break
		}
	}
	b.replyEmbed(s, m, embed)
}

func (b *bot) sendDaily(s *discordgo.Session, m *discordgo.MessageCreate, userID string) {
	out, err := b.svc.ClaimDaily(userID, b.dailyReward)
	if err != nil {
		b.reply(s, m, "❌ "+err.Error())
		return
	}
	b.reply(s, m, fmt.Sprintf("✅ 출석 완료! **%.0f원**이 지급되었습니다.\n현재 잔액: `$%.2f`", out.Reward, out.NewBalance))
}

func (b *bot) sendSlots(s *discordgo.Session, m *discordgo.MessageCreate, userID string, args []string) {
	bet, ok := b.parseBetArg(s, m, args)
	if !ok {
		return
	}
	out, err := b.svc.SpinSlots(userID, bet)
	if err != nil {
		b.reply(s, m, "❌ "+err.Error())
		return
	}
	title, color := gambleVerdict(out.Winnings, out.Bet)
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title: "🎰 슬롯머신",
		Description: fmt.Sprintf("%s %s %s\n\n%s\n베팅: %d | 획득: %d\n현재 잔액: `$%.2f`",
			out.Reels[0], out.Reels[1], out.Reels[2], title, out.Bet, out.Winnings, out.NewBalance),
		Color: color,
	})
}

func (b *bot) sendDice(s *discordgo.Session, m *discordgo.MessageCreate, userID string, args []string) {
	bet, ok := b.parseBetArg(s, m, args)
	if !ok {
		return
	}
	out, err := b.svc.RollDice(userID, bet)
	if err != nil {
		b.reply(s, m, "❌ "+err.Error())
		return
	}
	title, color := gambleVerdict(out.Winnings, out.Bet)
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title: "🎲 주사위",
		Description: fmt.Sprintf("🎲 %d + %d = %d\n\n%s\n베팅: %d | 획득: %d\n현재 잔액: `$%.2f`",
			out.Die1, out.Die2, out.Die1+out.Die2, title, out.Bet, out.Winnings, out.NewBalance),
		Color: color,
	})
}

func (b *bot) sendCoinFlip(s *discordgo.Session, m *discordgo.MessageCreate, userID string, args []string) {
	if len(args) != 2 {
		b.reply(s, m, fmt.Sprintf("사용법: `%s동전 <금액|all> <앞|뒤>`", b.prefix))
		return
	}
	bet, err := game.ParseBet(args[0])
	if err != nil {
		b.reply(s, m, "❌ "+err.Error())
		return
	}
	out, err := b.svc.FlipCoin(userID, bet, args[1])
	if err != nil {
		b.reply(s, m, "❌ "+err.Error())
		return
	}
	title, color := gambleVerdict(out.Winnings, out.Bet)
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title: "🪙 동전 던지기",
		Description: fmt.Sprintf("선택: **%s** | 결과: **%s**\n\n%s\n베팅: %d | 획득: %d\n현재 잔액: `$%.2f`",
			out.Choice, out.Result, title, out.Bet, out.Winnings, out.NewBalance),
		Color: color,
	})
}

func (b *bot) parseBetArg(s *discordgo.Session, m *discordgo.MessageCreate, args []string) (game.Quantity, bool) {
	if len(args) != 1 {
		b.reply(s, m, "사용법: 베팅 금액(양의 정수) 또는 'all'을 입력해주세요.")
		return game.Quantity{}, false
	}
	bet, err := game.ParseBet(args[0])
	if err != nil {
		b.reply(s, m, "❌ "+err.Error())
		return game.Quantity{}, false
	}
	return bet, true
}

func gambleVerdict(winnings, bet int) (string, int) {
	switch {
	case winnings > bet:
		return "🎉 승리!", colorGreen
	case winnings == bet:
		return "➖ 본전", colorGold
	default:
		return "💸 패배...", colorRed
	}
}

func (b *bot) sendDraw(s *discordgo.Session, m *discordgo.MessageCreate, names []string) {
	if len(names) < 2 {
		b.reply(s, m, fmt.Sprintf("2명 이상 입력해주세요! 예시: `%s제비뽑기 철수 영희 민수`", b.prefix))
		return
	}
	b.reply(s, m, fmt.Sprintf("🎉 당첨자는 **%s** 입니다! 🎉", drawWinner(names)))
}

// drawWinner picks via the package-level rand: discordgo runs each event
// handler on its own goroutine, so the draw must not share an unlocked
// rand.Rand between handlers.
func drawWinner(names []string) string {
	return names[rand.Intn(len(names))]
}

func (b *bot) sendHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title:       "📜 봇 도움말",
		Description: fmt.Sprintf("명령어 접두사는 `%s` 입니다.", b.prefix),
		Color:       0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💹 주식 명령어", Value: "`주식목록`, `주식구매`, `주식판매`, `내자산`, `랭킹`, `출석`"},
			{Name: "🎰 도박 명령어", Value: "`슬롯`, `주사위`, `동전`"},
			{Name: "🎲 기타 명령어", Value: "`제비뽑기`, `도움말`"},
		},
	})
}
