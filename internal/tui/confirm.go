package tui

import "fmt"

type confirmModel struct {
	message string
}

func confirmDelete(name string) confirmModel {
	return confirmModel{message: fmt.Sprintf("Удалить \"%s\" вместе с историей приёмов?", name)}
}

func confirmRestore(medications, logs int) confirmModel {
	return confirmModel{message: fmt.Sprintf(
		"Заменить локальные данные облачной копией?\nЛекарств: %d, приёмов: %d", medications, logs)}
}

func (m confirmModel) View() string {
	content := m.message + "\n\n"
	content += "y да    n нет"
	return overlayBoxStyle.Render(content)
}
