package models

import (
	"github.com/crystalbudget/backend/internal/allocation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TemplateCategory is a category created by a template.
type TemplateCategory struct {
	Name    string          `json:"name" example:"Продукты"`
	Icon    string          `json:"icon" example:"shopping-cart"`
	Color   string          `json:"color" example:"#F59E0B"`
	Percent decimal.Decimal `json:"percent,omitempty" example:"30"` // Share of every income category, expense categories only
}

// Template is a predefined set of categories to get started with.
type Template struct {
	ID                string             `json:"id" example:"basic"`
	Name              string             `json:"name" example:"Базовый"`
	Description       string             `json:"description" example:"Стандартный набор для начала"`
	Icon              string             `json:"icon" example:"wallet"`
	IncomeCategories  []TemplateCategory `json:"incomeCategories"`
	ExpenseCategories []TemplateCategory `json:"expenseCategories"`
}

func pct(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Templates are all available category templates.
var Templates = []Template{
	{
		ID:          "basic",
		Name:        "Базовый",
		Description: "Стандартный набор для начала",
		Icon:        "wallet",
		IncomeCategories: []TemplateCategory{
			{Name: "Зарплата", Icon: "briefcase", Color: "#10B981"},
			{Name: "Аванс", Icon: "banknote", Color: "#06B6D4"},
			{Name: "Подработка", Icon: "laptop", Color: "#8B5CF6"},
		},
		ExpenseCategories: []TemplateCategory{
			{Name: "Продукты", Icon: "shopping-cart", Color: "#F59E0B", Percent: pct(30)},
			{Name: "Транспорт", Icon: "car", Color: "#3B82F6", Percent: pct(10)},
			{Name: "Жильё", Icon: "home", Color: "#EF4444", Percent: pct(25)},
			{Name: "Развлечения", Icon: "gamepad-2", Color: "#EC4899", Percent: pct(10)},
			{Name: "Накопления", Icon: "piggy-bank", Color: "#22C55E", Percent: pct(15)},
			{Name: "Прочее", Icon: "more-horizontal", Color: "#6B7280", Percent: pct(10)},
		},
	},
	{
		ID:          "freelancer",
		Name:        "Для фрилансера",
		Description: "Учитывает налоги и инструменты",
		Icon:        "laptop",
		IncomeCategories: []TemplateCategory{
			{Name: "Проекты", Icon: "folder", Color: "#10B981"},
			{Name: "Консультации", Icon: "message-circle", Color: "#06B6D4"},
			{Name: "Пассивный доход", Icon: "trending-up", Color: "#8B5CF6"},
		},
		ExpenseCategories: []TemplateCategory{
			{Name: "Налоги", Icon: "file-text", Color: "#EF4444", Percent: pct(15)},
			{Name: "Инструменты", Icon: "wrench", Color: "#3B82F6", Percent: pct(10)},
			{Name: "Образование", Icon: "book-open", Color: "#8B5CF6", Percent: pct(10)},
			{Name: "Продукты", Icon: "shopping-cart", Color: "#F59E0B", Percent: pct(20)},
			{Name: "Жильё", Icon: "home", Color: "#EC4899", Percent: pct(20)},
			{Name: "Накопления", Icon: "piggy-bank", Color: "#22C55E", Percent: pct(20)},
			{Name: "Прочее", Icon: "more-horizontal", Color: "#6B7280", Percent: pct(5)},
		},
	},
	{
		ID:          "family",
		Name:        "Семейный",
		Description: "Для семьи с детьми",
		Icon:        "users",
		IncomeCategories: []TemplateCategory{
			{Name: "Зарплата (муж)", Icon: "briefcase", Color: "#10B981"},
			{Name: "Зарплата (жена)", Icon: "briefcase", Color: "#06B6D4"},
			{Name: "Пособия", Icon: "gift", Color: "#8B5CF6"},
		},
		ExpenseCategories: []TemplateCategory{
			{Name: "Продукты", Icon: "shopping-cart", Color: "#F59E0B", Percent: pct(25)},
			{Name: "Дети", Icon: "baby", Color: "#EC4899", Percent: pct(20)},
			{Name: "Жильё", Icon: "home", Color: "#EF4444", Percent: pct(20)},
			{Name: "Медицина", Icon: "heart-pulse", Color: "#14B8A6", Percent: pct(10)},
			{Name: "Отпуск", Icon: "plane", Color: "#3B82F6", Percent: pct(10)},
			{Name: "Накопления", Icon: "piggy-bank", Color: "#22C55E", Percent: pct(10)},
			{Name: "Прочее", Icon: "more-horizontal", Color: "#6B7280", Percent: pct(5)},
		},
	},
}

// TemplateByID returns the template with the ID.
func TemplateByID(id string) (Template, error) {
	for _, t := range Templates {
		if t.ID == id {
			return t, nil
		}
	}

	return Template{}, ErrTemplateNotFound
}

// ApplyTemplate creates the categories of the template for the user.
//
// Every expense category receives its percentage from each of the template's
// income categories. The user is marked as onboarded. Categories with a name
// the user already uses make the whole operation fail.
func ApplyTemplate(db *gorm.DB, user *User, t Template) error {
	return db.Transaction(func(tx *gorm.DB) error {
		incomes := make([]IncomeCategory, 0, len(t.IncomeCategories))
		for _, tc := range t.IncomeCategories {
			c := IncomeCategory{UserID: user.ID, Name: tc.Name, Icon: tc.Icon, Color: tc.Color}
			err := tx.Create(&c).Error
			if err != nil {
				return err
			}
			incomes = append(incomes, c)
		}

		for _, tc := range t.ExpenseCategories {
			c := ExpenseCategory{UserID: user.ID, Name: tc.Name, Icon: tc.Icon, Color: tc.Color}
			err := tx.Create(&c).Error
			if err != nil {
				return err
			}

			specs := make([]AllocationSpec, 0, len(incomes))
			for _, ic := range incomes {
				specs = append(specs, AllocationSpec{
					IncomeCategoryID: ic.ID,
					Type:             allocation.Percentage,
					Value:            tc.Percent,
				})
			}

			_, err = ReplaceAllocations(tx, c.ID, specs)
			if err != nil {
				return err
			}
		}

		return tx.Model(user).Update("onboarding_completed", true).Error
	})
}
