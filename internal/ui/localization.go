package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle        = "app_title"
	KeyFile            = "file"
	KeySettings        = "settings"
	KeyLanguage        = "language"
	KeyOverview        = "overview"
	KeyPrevPage        = "prev_page"
	KeyNextPage        = "next_page"
	KeyApps            = "apps"
	KeyWidgets         = "widgets"
	KeyPagerSection    = "pager_section"
	KeyPrefetchSection = "prefetch_section"
	KeyPageSpacing     = "page_spacing"
	KeyLookAhead       = "look_ahead"
	KeyLookBehind      = "look_behind"
	KeySnapVelocity    = "snap_velocity"
	KeyOverscroll      = "overscroll"
	KeyCircular        = "circular"
	KeyPrefetchDelay   = "prefetch_delay"
	KeyPrefetchWorkers = "prefetch_workers"
	KeyOverviewSolver  = "overview_solver"
	KeySave            = "save"
	KeyCancel          = "cancel"
	KeySettingsSaved   = "settings_saved"
	KeyInvalidNumber   = "invalid_number"
	KeyRebuildFailed   = "rebuild_failed"
	KeyRendering       = "rendering_previews"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// System locale detection is not wired; English is the fallback
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:        "Pager",
		KeyFile:            "File",
		KeySettings:        "Settings",
		KeyLanguage:        "Language",
		KeyOverview:        "Overview",
		KeyPrevPage:        "Previous page",
		KeyNextPage:        "Next page",
		KeyApps:            "Apps",
		KeyWidgets:         "Widgets",
		KeyPagerSection:    "Paging",
		KeyPrefetchSection: "Previews",
		KeyPageSpacing:     "Page spacing (px):",
		KeyLookAhead:       "Pages loaded ahead:",
		KeyLookBehind:      "Pages loaded behind:",
		KeySnapVelocity:    "Fling velocity (px/s):",
		KeyOverscroll:      "Overscroll:",
		KeyCircular:        "Wrap around",
		KeyPrefetchDelay:   "Delay per page (ms):",
		KeyPrefetchWorkers: "Render workers:",
		KeyOverviewSolver:  "Overview layout:",
		KeySave:            "Save",
		KeyCancel:          "Cancel",
		KeySettingsSaved:   "Settings saved",
		KeyInvalidNumber:   "Invalid number",
		KeyRebuildFailed:   "Could not apply settings",
		KeyRendering:       "Rendering previews",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:        "Пейджер",
		KeyFile:            "Файл",
		KeySettings:        "Настройки",
		KeyLanguage:        "Язык",
		KeyOverview:        "Обзор",
		KeyPrevPage:        "Предыдущая страница",
		KeyNextPage:        "Следующая страница",
		KeyApps:            "Приложения",
		KeyWidgets:         "Виджеты",
		KeyPagerSection:    "Листание",
		KeyPrefetchSection: "Превью",
		KeyPageSpacing:     "Отступ страниц (px):",
		KeyLookAhead:       "Загружать вперёд:",
		KeyLookBehind:      "Загружать назад:",
		KeySnapVelocity:    "Скорость броска (px/s):",
		KeyOverscroll:      "Прокрутка за край:",
		KeyCircular:        "По кругу",
		KeyPrefetchDelay:   "Задержка на страницу (мс):",
		KeyPrefetchWorkers: "Потоков отрисовки:",
		KeyOverviewSolver:  "Раскладка обзора:",
		KeySave:            "Сохранить",
		KeyCancel:          "Отмена",
		KeySettingsSaved:   "Настройки сохранены",
		KeyInvalidNumber:   "Неверное число",
		KeyRebuildFailed:   "Не удалось применить настройки",
		KeyRendering:       "Отрисовка превью",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:        "Pager",
		KeyFile:            "Arquivo",
		KeySettings:        "Configurações",
		KeyLanguage:        "Idioma",
		KeyOverview:        "Visão geral",
		KeyPrevPage:        "Página anterior",
		KeyNextPage:        "Próxima página",
		KeyApps:            "Aplicativos",
		KeyWidgets:         "Widgets",
		KeyPagerSection:    "Paginação",
		KeyPrefetchSection: "Pré-visualizações",
		KeyPageSpacing:     "Espaço entre páginas (px):",
		KeyLookAhead:       "Páginas carregadas à frente:",
		KeyLookBehind:      "Páginas carregadas atrás:",
		KeySnapVelocity:    "Velocidade de arremesso (px/s):",
		KeyOverscroll:      "Rolagem além da borda:",
		KeyCircular:        "Circular",
		KeyPrefetchDelay:   "Atraso por página (ms):",
		KeyPrefetchWorkers: "Workers de renderização:",
		KeyOverviewSolver:  "Layout da visão geral:",
		KeySave:            "Salvar",
		KeyCancel:          "Cancelar",
		KeySettingsSaved:   "Configurações salvas",
		KeyInvalidNumber:   "Número inválido",
		KeyRebuildFailed:   "Não foi possível aplicar as configurações",
		KeyRendering:       "Renderizando pré-visualizações",
	}
}
