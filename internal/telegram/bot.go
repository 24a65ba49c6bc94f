package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode"

	"github.com/crystalbudget/backend/internal/allocation"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/crystalbudget/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Bot answers commands sent to the telegram bot.
type Bot struct {
	db     *gorm.DB
	sender Sender
	format Formatter
	now    func() time.Time
}

func NewBot(db *gorm.DB, sender Sender, format Formatter) *Bot {
	return &Bot{
		db:     db,
		sender: sender,
		format: format,
		now:    time.Now,
	}
}

// command splits the message text into the command and its arguments.
// A bot name suffix like /balance@CrystalBudgetBot is removed.
func command(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}

	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd), fields[1:]
}

// HandleUpdate processes an update. Updates without a text message are ignored.
//
// Errors are only returned if the update could not be processed. Mistakes of
// the sender, like an unknown command, are answered in the chat.
func (b *Bot) HandleUpdate(ctx context.Context, update Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	cmd, args := command(msg.Text)
	updatesTotal.WithLabelValues(commandLabel(cmd)).Inc()

	log.Debug().Int64("update", update.UpdateID).Str("command", cmd).Msg("Telegram")

	if cmd == "/start" {
		return b.start(ctx, msg, args)
	}

	user, err := models.UserByTelegramID(b.db, msg.From.ID)
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return b.reply(ctx, msg, "⚠️ Аккаунт не привязан.\n\nОтправь /start чтобы узнать как привязать.")
		}
		return err
	}

	switch cmd {
	case "/balance":
		return b.balance(ctx, msg, user)
	case "/add":
		return b.add(ctx, msg, user, args)
	case "/categories":
		return b.categories(ctx, msg, user)
	case "/help":
		return b.reply(ctx, msg, helpText)
	}

	return b.reply(ctx, msg, "🤔 Не понял команду.\n\nОтправь /help для списка доступных команд.")
}

func (b *Bot) reply(ctx context.Context, msg *Message, text string) error {
	return b.sender.SendMessage(ctx, msg.Chat.ID, text)
}

const commandList = "/balance — текущий баланс\n" +
	"/add [сумма] [описание] — добавить доход\n" +
	"/categories — список категорий\n" +
	"/help — справка"

const helpText = "📖 <b>Справка CrystalBudget</b>\n\n" +
	"<b>Основные команды:</b>\n" +
	"/balance — текущий баланс и распределение\n" +
	"/add [сумма] [описание] — добавить доход\n" +
	"/categories — список категорий расходов\n\n" +
	"<b>Примеры:</b>\n" +
	"<code>/add 50000 Зарплата</code>\n" +
	"<code>/add 10 000 Фриланс заказ</code>\n\n" +
	"💡 Если первое слово описания совпадает с категорией дохода, доход попадёт в неё.\n" +
	"Управляй категориями в веб-приложении для полного контроля."

func displayName(u models.User) string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return "друг"
}

func (b *Bot) start(ctx context.Context, msg *Message, args []string) error {
	if len(args) == 0 {
		user, err := models.UserByTelegramID(b.db, msg.From.ID)
		if err == nil {
			return b.reply(ctx, msg, fmt.Sprintf("👋 Привет, <b>%s</b>!\n\n"+
				"Твой аккаунт уже привязан к CrystalBudget.\n\n"+
				"📋 <b>Доступные команды:</b>\n%s", html.EscapeString(displayName(user)), commandList))
		}

		return b.reply(ctx, msg, "👋 Добро пожаловать в <b>CrystalBudget</b>!\n\n"+
			"Чтобы начать, привяжи свой аккаунт:\n"+
			"1. Открой приложение CrystalBudget\n"+
			"2. Перейди в настройки профиля\n"+
			"3. Нажми \"Привязать Telegram\"\n"+
			"4. Скопируй код и отправь сюда:\n"+
			"/start ТВОЙ_КОД")
	}

	user, err := models.LinkTelegram(b.db, args[0], msg.From.ID, msg.From.Username)
	if errors.Is(err, models.ErrLinkCodeInvalid) {
		return b.reply(ctx, msg, "❌ Код не найден или уже использован.\n\nПолучи новый код в настройках приложения.")
	} else if err != nil {
		return err
	}

	log.Info().Str("user", user.ID.String()).Msg("Telegram account linked")

	return b.reply(ctx, msg, fmt.Sprintf("✅ Аккаунт успешно привязан!\n\n"+
		"Добро пожаловать, <b>%s</b>!\n\n"+
		"Теперь ты можешь управлять бюджетом прямо из Telegram.\n"+
		"Отправь /help для списка команд.", html.EscapeString(displayName(user))))
}

// icon returns the category icon if it is an emoji, icon names of the
// web interface are replaced by a folder.
func icon(name string) string {
	for _, r := range name {
		if r > unicode.MaxASCII {
			return name
		}
	}
	return "📁"
}

// rule renders the value of an allocation rule.
func (b *Bot) rule(r allocation.Rule, currency string) string {
	if r.Type == allocation.Percentage {
		return b.format.Percent(r.Value)
	}
	return b.format.Money(r.Value, currency)
}

func (b *Bot) balance(ctx context.Context, msg *Message, user models.User) error {
	summary, err := user.Summary(b.db, "", types.PeriodAll, b.now())
	if err != nil {
		return err
	}

	var s strings.Builder
	s.WriteString("💰 <b>Баланс CrystalBudget</b>\n\n")
	fmt.Fprintf(&s, "📥 Общий доход: <b>%s</b>\n\n", b.format.Money(summary.TotalIncome, summary.Currency))

	if len(summary.Categories) == 0 {
		s.WriteString("Категории ещё не созданы. Создай их в приложении.")
		return b.reply(ctx, msg, s.String())
	}

	s.WriteString("📊 <b>Распределение:</b>\n")
	for _, c := range summary.Categories {
		rules := make([]string, 0, len(c.Contributions))
		for _, contribution := range c.Contributions {
			rules = append(rules, b.rule(contribution.Rule, summary.Currency))
		}

		line := fmt.Sprintf("%s %s: %s", icon(c.Category.Icon), html.EscapeString(c.Category.Name), b.format.Money(c.Amount, summary.Currency))
		if len(rules) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(rules, " + "))
		}
		s.WriteString(line + "\n")
	}

	fmt.Fprintf(&s, "\n💵 Остаток: <b>%s</b>", b.format.Money(summary.Remainder, summary.Currency))

	return b.reply(ctx, msg, s.String())
}

const addExample = "\n\nПример: /add 50000 Зарплата"

func (b *Bot) add(ctx context.Context, msg *Message, user models.User, args []string) error {
	if len(args) == 0 {
		return b.reply(ctx, msg, "⚠️ Укажи сумму дохода."+addExample)
	}

	// Digit groups separated by spaces belong to the amount
	n := 1
	for n < len(args) && isDigitGroup(args[n]) {
		n++
	}

	amount, err := ParseAmount(strings.Join(args[:n], ""))
	if err != nil {
		return b.reply(ctx, msg, "❌ Неверная сумма. Укажи положительное число."+addExample)
	}

	description := args[n:]

	income := models.Income{
		UserID: user.ID,
		Amount: amount,
	}

	var category models.IncomeCategory
	var matched bool
	if len(description) > 0 {
		categories, err := user.IncomeCategories(b.db)
		if err != nil {
			return err
		}

		category, matched = MatchIncomeCategory(description[0], categories)
		if matched {
			income.CategoryID = &category.ID
			description = description[1:]
		}
	}
	income.Description = strings.Join(description, " ")

	err = b.db.Create(&income).Error
	if err != nil {
		return b.reply(ctx, msg, fmt.Sprintf("❌ Ошибка при добавлении: %s", html.EscapeString(err.Error())))
	}

	// The income is stored. Errors from here on are only logged, otherwise
	// telegram redelivers the update and the income is added again.
	summary, err := user.Summary(b.db, income.Currency, types.PeriodAll, b.now())
	if err != nil {
		log.Error().Str("income", income.ID.String()).Err(err).Msg("telegram /add summary")
	}

	var s strings.Builder
	s.WriteString("✅ <b>Доход добавлен!</b>\n\n")
	fmt.Fprintf(&s, "💵 Сумма: %s\n", b.format.Money(income.Amount, income.Currency))
	if matched {
		fmt.Fprintf(&s, "🏷 Категория: %s\n", html.EscapeString(category.Name))
	}
	if income.Description != "" {
		fmt.Fprintf(&s, "📝 Описание: %s\n", html.EscapeString(income.Description))
	}
	if err == nil {
		fmt.Fprintf(&s, "\n📊 Новый баланс: <b>%s</b>", b.format.Money(summary.TotalIncome, summary.Currency))
	}

	if err := b.reply(ctx, msg, s.String()); err != nil {
		log.Error().Str("income", income.ID.String()).Err(err).Msg("telegram /add reply")
	}
	return nil
}

// isDigitGroup reports if the argument continues a number written with
// spaces, e.g. the "000" in "50 000".
func isDigitGroup(s string) bool {
	if len(s) != 3 {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (b *Bot) categories(ctx context.Context, msg *Message, user models.User) error {
	expenses, err := user.ExpenseCategories(b.db)
	if err != nil {
		return err
	}

	if len(expenses) == 0 {
		return b.reply(ctx, msg, "📁 <b>Категории расходов</b>\n\n"+
			"У тебя пока нет категорий.\n"+
			"Создай их в приложении CrystalBudget.")
	}

	incomes, err := user.IncomeCategories(b.db)
	if err != nil {
		return err
	}

	names := make(map[uuid.UUID]string, len(incomes))
	for _, c := range incomes {
		names[c.ID] = c.Name
	}

	var s strings.Builder
	s.WriteString("📁 <b>Категории расходов</b>\n\n")

	for _, c := range expenses {
		allocations, err := c.Allocations(b.db)
		if err != nil {
			return err
		}

		rules := make([]string, 0, len(allocations))
		for _, a := range allocations {
			rules = append(rules, fmt.Sprintf("%s из «%s»", b.rule(a.Rule(), user.DefaultCurrency), html.EscapeString(names[a.IncomeCategoryID])))
		}

		line := fmt.Sprintf("%s <b>%s</b>", icon(c.Icon), html.EscapeString(c.Name))
		if len(rules) > 0 {
			line += " — " + strings.Join(rules, ", ")
		}
		s.WriteString(line + "\n")
	}

	fmt.Fprintf(&s, "\nВсего категорий: %d", len(expenses))

	return b.reply(ctx, msg, s.String())
}
