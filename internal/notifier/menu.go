package notifier

// Main menu labels. Inbound text equal to a label is a menu action, so
// delivery and use cases share these.
const (
	MenuMyProfile  = "👤 Моя анкета"
	MenuFindMatch  = "🔍 Найти пару"
	MenuStopSearch = "⏸ Остановить поиск"
	MenuSettings   = "⚙️ Настройки"
)

func MainMenuRows() [][]string {
	return [][]string{
		{MenuMyProfile, MenuFindMatch},
		{MenuStopSearch, MenuSettings},
	}
}
