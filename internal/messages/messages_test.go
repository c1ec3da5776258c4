package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/session"
)

func TestParseCallback(t *testing.T) {
	cases := []struct {
		data string
		act  Action
		idx  int
	}{
		{"menu:order", ActOrder, 0},
		{"menu:my", ActMyOrder, 0},
		{"menu:clear", ActClear, 0},
		{ItemToken(3), ActItem, 3},
		{EditToken(11), ActEdit, 11},
		{"item:-1", ActUnknown, 0},
		{"item:abc", ActUnknown, 0},
		{"Ватрушка", ActUnknown, 0},
	}
	for _, tc := range cases {
		act, idx := ParseCallback(tc.data)
		assert.Equal(t, tc.act, act, tc.data)
		assert.Equal(t, tc.idx, idx, tc.data)
	}
}

func TestCatalogMenu_TwoPerRow(t *testing.T) {
	cat := catalog.Default()
	kb := CatalogMenu(cat)
	assert.Len(t, kb.InlineKeyboard, 7)
	first := kb.InlineKeyboard[0][0]
	assert.Equal(t, "Ватрушка", first.Text)
	assert.Equal(t, "item:0", *first.CallbackData)

	odd, _ := catalog.New([]catalog.Item{{Name: "A", Weight: 1}, {Name: "B", Weight: 1}, {Name: "C", Weight: 1}})
	kb = CatalogMenu(odd)
	assert.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[1], 1)
}

func TestOrderMenu_EditButtons(t *testing.T) {
	cat := catalog.Default()
	kb := OrderMenu(models.Order{"Мак": 2, "Ватрушка": 1}, cat)
	assert.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "✏️ Ватрушка: 1", kb.InlineKeyboard[0][0].Text)
	idx, _ := cat.IndexOf("Мак")
	assert.Equal(t, EditToken(idx), *kb.InlineKeyboard[1][0].CallbackData)
}

func TestQuantityTexts(t *testing.T) {
	add := models.PendingSelection{Item: "Мак"}
	edit := models.PendingSelection{Item: "Мак", IsEdit: true}

	assert.Equal(t, "Сколько штук Мак (вес: 190 гр.)?", AskQuantity(add, 190, 0))
	assert.Contains(t, AskQuantity(edit, 190, 4), "4 шт.")
	assert.Contains(t, QuantityAccepted(add, 3), "Добавлено")
	assert.Contains(t, QuantityAccepted(edit, 3), "Изменено")
	assert.Contains(t, QuantityAccepted(edit, 0), "удалена")
}

func TestOrderView(t *testing.T) {
	cat := catalog.Default()
	assert.Equal(t, EmptyOrder, OrderView(models.Order{}, cat))
	out := OrderView(models.Order{"Яблоко": 2, "Ватрушка": 1}, cat)
	assert.Contains(t, out, "• Ватрушка — 1 шт.\n• Яблоко — 2 шт.")
	assert.Contains(t, out, "Итого: 3 шт., 440 гр.")
}

func TestRegistrationPrompts(t *testing.T) {
	assert.Equal(t, AskAddress, Prompt(models.StepAwaitingAddress))
	assert.Equal(t, AskLocationName, Prompt(models.StepNone))
	assert.Contains(t, InvalidRegistrationInput(session.ErrEmptyInput, models.StepAwaitingAddress), AskAddress)
	assert.Contains(t, InvalidRegistrationInput(session.ErrInputTooLong, models.StepAwaitingLocationName), "200")
}
