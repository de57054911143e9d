package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sevenoy/GeminiMeds/internal/service"
	"github.com/sevenoy/GeminiMeds/models"
)

// refreshInterval re-reads local state so pulls made by the background sync
// job show up without a key press.
const refreshInterval = 30 * time.Second

type screen int

const (
	screenList screen = iota
	screenDetail
	screenForm
	screenSignIn
	screenConfirmDelete
	screenConfirmRestore
	screenBuildInfo
	screenError
)

type dashboardModel struct {
	ctx      context.Context
	services *service.ClientServices
	session  Session
	build    models.AppBuildInfo
	now      func() time.Time

	rows    []medicationRow
	idx     int
	loading bool
	sync    syncModel

	screen  screen
	back    screen
	status  string
	errMsg  string
	form    medicationFormModel
	signIn  signInModel
	confirm confirmModel
	restore models.SnapshotPayload
	overlay errorOverlayModel

	// copyToClipboard is swapped in tests.
	copyToClipboard func(string) error
}

func newDashboardModel(ctx context.Context, services *service.ClientServices, session Session, build models.AppBuildInfo) dashboardModel {
	return dashboardModel{
		ctx:             ctx,
		services:        services,
		session:         session,
		build:           build,
		now:             time.Now,
		loading:         true,
		sync:            newSyncModel(),
		copyToClipboard: clipboard.WriteAll,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoad(), scheduleRefresh())
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func (m dashboardModel) current() (medicationRow, bool) {
	if m.idx < 0 || m.idx >= len(m.rows) {
		return medicationRow{}, false
	}
	return m.rows[m.idx], true
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.rows = msg.rows
		if m.idx >= len(m.rows) {
			m.idx = len(m.rows) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		if m.screen == screenDetail && len(m.rows) == 0 {
			m.screen = screenList
		}
		return m, nil

	case reloadMsg:
		return m, m.cmdLoad()

	case refreshTickMsg:
		return m, tea.Batch(m.cmdLoad(), scheduleRefresh())

	case syncDoneMsg:
		m.sync = m.sync.stop()
		if msg.err != nil {
			m.errMsg = "Ошибка синхронизации: " + humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = reportText(msg.report)
		return m, m.cmdLoad()

	case medicationSavedMsg:
		if msg.err != nil {
			m.form.err = humanizeError(msg.err)
			return m, nil
		}
		m.screen = screenList
		m.status = fmt.Sprintf("Сохранено: %s", msg.medication.Name)
		m.errMsg = ""
		return m, m.cmdLoad()

	case medicationDeletedMsg:
		m.screen = screenList
		if msg.err != nil {
			m.errMsg = "Ошибка удаления: " + humanizeError(msg.err)
			return m, nil
		}
		m.status = "Лекарство удалено"
		m.errMsg = ""
		return m, m.cmdLoad()

	case intakeLoggedMsg:
		if msg.err != nil {
			m.errMsg = "Приём не записан: " + humanizeError(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Приём записан в %s, %s", msg.log.TakenAt.Local().Format("15:04"), statusName(msg.log.Status))
		m.errMsg = ""
		return m, m.cmdLoad()

	case cloudSavedMsg:
		m.sync = m.sync.stop()
		if !msg.result.Success {
			m.errMsg = "Облачная копия не сохранена: " + valueOrDash(msg.result.Message)
			return m, nil
		}
		m.errMsg = ""
		m.status = fmt.Sprintf("Облачная копия сохранена, версия %d", msg.result.Version)
		return m, nil

	case cloudLoadedMsg:
		m.sync = m.sync.stop()
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.restore = msg.payload
		m.confirm = confirmRestore(len(msg.payload.Medications), len(msg.payload.MedicationLogs))
		m.back = m.screen
		m.screen = screenConfirmRestore
		return m, nil

	case snapshotAppliedMsg:
		m.restore = models.SnapshotPayload{}
		if msg.err != nil {
			m.showError("Восстановление не выполнено", humanizeError(msg.err))
			return m, nil
		}
		m.status = "Данные восстановлены из облака"
		m.errMsg = ""
		return m, m.cmdLoad()

	case signedInMsg:
		m.signIn.submitting = false
		if msg.err != nil {
			m.signIn.err = humanizeError(msg.err)
			return m, nil
		}
		m.screen = screenList
		m.status = "Вход выполнен"
		m.errMsg = ""
		return m, m.cmdLoad()

	case signedOutMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.status = "Выход выполнен, данные остаются на устройстве"
		m.errMsg = ""
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.forceQuit) {
			return m, tea.Quit
		}
		return m.updateKey(msg)
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenForm:
		m.form, cmd = m.form.Update(msg)
	case screenSignIn:
		m.signIn, cmd = m.signIn.Update(msg)
	default:
		m.sync, cmd = m.sync.Update(msg)
	}
	return m, cmd
}

func (m *dashboardModel) showError(title, detail string) {
	m.overlay = errorOverlayModel{title: title, detail: detail}
	m.screen = screenError
}

func (m dashboardModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenForm:
		return m.updateForm(msg)
	case screenSignIn:
		return m.updateSignIn(msg)
	case screenConfirmDelete:
		return m.updateConfirmDelete(msg)
	case screenConfirmRestore:
		return m.updateConfirmRestore(msg)
	case screenBuildInfo:
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.version) {
			m.screen = screenList
		}
		return m, nil
	case screenError:
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.enter) {
			m.screen = screenList
		}
		return m, nil
	case screenDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.rows)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.enter):
		if _, ok := m.current(); ok {
			m.screen = screenDetail
		}
	case key.Matches(msg, keys.newItem):
		m.form = newMedicationForm(nil)
		m.back = screenList
		m.screen = screenForm
		return m, textinput.Blink
	case key.Matches(msg, keys.sync):
		if m.sync.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.sync, cmd = m.sync.start("Синхронизация...")
		m.status = ""
		return m, tea.Batch(cmd, m.cmdSync())
	case key.Matches(msg, keys.save):
		if m.sync.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.sync, cmd = m.sync.start("Сохранение в облако...")
		return m, tea.Batch(cmd, m.cmdCloudSave())
	case key.Matches(msg, keys.restore):
		if m.sync.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.sync, cmd = m.sync.start("Загрузка облачной копии...")
		return m, tea.Batch(cmd, m.cmdCloudLoad())
	case key.Matches(msg, keys.signIn):
		m.signIn = newSignInModel()
		m.screen = screenSignIn
		return m, textinput.Blink
	case key.Matches(msg, keys.signOut):
		return m, m.cmdSignOut()
	case key.Matches(msg, keys.copyID):
		return m.copyDeviceID()
	case key.Matches(msg, keys.version):
		m.screen = screenBuildInfo
	default:
		return m.updateRowAction(msg, screenList)
	}
	return m, nil
}

func (m dashboardModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.esc) || key.Matches(msg, keys.quit) {
		m.screen = screenList
		return m, nil
	}
	return m.updateRowAction(msg, screenDetail)
}

// updateRowAction handles the keys acting on the selected medication.
func (m dashboardModel) updateRowAction(msg tea.KeyMsg, from screen) (tea.Model, tea.Cmd) {
	row, ok := m.current()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.take):
		return m, m.cmdTake(row.medication.ID)
	case key.Matches(msg, keys.edit):
		m.form = newMedicationForm(&row.medication)
		m.back = from
		m.screen = screenForm
		return m, textinput.Blink
	case key.Matches(msg, keys.delete):
		m.confirm = confirmDelete(row.medication.Name)
		m.back = from
		m.screen = screenConfirmDelete
	}
	return m, nil
}

func (m dashboardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = m.back
		return m, nil
	case key.Matches(msg, keys.enter):
		medication, err := m.form.toMedication()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form.err = ""
		return m, m.cmdSaveMedication(medication, m.form.editing)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m dashboardModel) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenList
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.signIn.submitting {
			return m, nil
		}
		token := m.signIn.token()
		if token == "" {
			m.signIn.err = "Введите токен"
			return m, nil
		}
		m.signIn.submitting = true
		m.signIn.err = ""
		return m, m.cmdSignIn(token)
	}

	var cmd tea.Cmd
	m.signIn, cmd = m.signIn.Update(msg)
	return m, cmd
}

func (m dashboardModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		row, ok := m.current()
		if !ok {
			m.screen = screenList
			return m, nil
		}
		return m, m.cmdDelete(row.medication.ID)
	case key.Matches(msg, keys.no):
		m.screen = m.back
	}
	return m, nil
}

func (m dashboardModel) updateConfirmRestore(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.screen = screenList
		return m, m.cmdApplySnapshot(m.restore)
	case key.Matches(msg, keys.no):
		m.restore = models.SnapshotPayload{}
		m.screen = m.back
	}
	return m, nil
}

func (m dashboardModel) copyDeviceID() (tea.Model, tea.Cmd) {
	deviceID, err := m.services.Device.DeviceID(m.ctx)
	if err != nil {
		m.errMsg = humanizeError(err)
		return m, nil
	}
	if err := m.copyToClipboard(deviceID); err != nil {
		m.errMsg = fmt.Sprintf("Ошибка копирования: %v", err)
		return m, nil
	}
	m.status = "ID устройства скопирован"
	return m, nil
}

func (m dashboardModel) cmdLoad() tea.Cmd {
	services, ctx, now := m.services, m.ctx, m.now
	return func() tea.Msg {
		medications, err := services.Medications.List(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		logs, err := services.Logs.List(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{rows: buildRows(medications, logs, now())}
	}
}

func (m dashboardModel) cmdSync() tea.Cmd {
	services, ctx := m.services, m.ctx
	return func() tea.Msg {
		report, err := services.Sync.FullSync(ctx)
		return syncDoneMsg{report: report, err: err}
	}
}

func (m dashboardModel) cmdSaveMedication(medication models.Medication, editing bool) tea.Cmd {
	services, ctx := m.services, m.ctx
	return func() tea.Msg {
		var (
			saved models.Medication
			err   error
		)
		if editing {
			saved, err = services.Medications.Update(ctx, medication)
		} else {
			saved, err = services.Medications.Create(ctx, medication)
		}
		return medicationSavedMsg{medication: saved, err: err}
	}
}

func (m dashboardModel) cmdDelete(id string) tea.Cmd {
	services, ctx := m.services, m.ctx
	return func() tea.Msg {
		return medicationDeletedMsg{err: services.Medications.Delete(ctx, id)}
	}
}

func (m dashboardModel) cmdTake(medicationID string) tea.Cmd {
	services, ctx := m.services, m.ctx
	return func() tea.Msg {
		log, err := services.Logs.Record(ctx, service.LogInput{MedicationID: medicationID})
		return intakeLoggedMsg{log: log, err: err}
	}
}

func (m dashboardModel) cmdCloudSave() tea.Cmd {
	services, ctx := m.services, m.ctx
	return func() tea.Msg {
		return cloudSavedMsg{result: services.Sync.CloudSaveV2(ctx)}
	}
}

func (m dashboardModel) cmdCloudLoad() tea.Cmd {
	services, ctx := m.services, m.ctx
	return func() tea.Msg {
		payload, err := services.Sync.CloudLoadV2(ctx)
		return cloudLoadedMsg{payload: payload, err: err}
	}
}

func (m dashboardModel) cmdApplySnapshot(payload models.SnapshotPayload) tea.Cmd {
	services, ctx := m.services, m.ctx
	return func() tea.Msg {
		return snapshotAppliedMsg{err: services.Sync.ApplySnapshot(ctx, payload)}
	}
}

func (m dashboardModel) cmdSignIn(token string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return signedInMsg{err: session.SignIn(ctx, token)}
	}
}

func (m dashboardModel) cmdSignOut() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return signedOutMsg{err: session.SignOut(ctx)}
	}
}

func (m dashboardModel) header() string {
	owner, ok := m.services.Session.OwnerID()
	account := "без входа, только это устройство"
	if ok {
		account = "аккаунт " + fitText(owner, 24)
	}
	return fmt.Sprintf("GeminiMeds  %s  (%s)", m.now().Format("02.01.2006"), account)
}

func (m dashboardModel) View() string {
	var page string

	switch m.screen {
	case screenForm:
		return appStyle.Render(m.form.View())
	case screenSignIn:
		return appStyle.Render(m.signIn.View())
	case screenBuildInfo:
		deviceID, _ := m.services.Device.DeviceID(m.ctx)
		return appStyle.Render(renderBuildInfoWindow(m.build, deviceID))
	case screenError:
		return appStyle.Render(m.overlay.View())
	case screenConfirmDelete, screenConfirmRestore:
		return appStyle.Render(m.confirm.View())
	case screenDetail:
		row, ok := m.current()
		if !ok {
			return appStyle.Render(renderPage(m.header(), "", "esc назад"))
		}
		page = renderPage(m.header(), renderDetail(row), "t принять  e изменить  ctrl+d удалить  esc назад")
	default:
		page = renderPage(m.header(), renderList(m.rows, m.idx, m.loading),
			"↑/↓ выбор  enter подробно  t принять  n новое  e изменить  ctrl+d удалить\n"+
				"  s синхр.  c в облако  r из облака  i вход  o выход  u копировать ID  v версия  q выход")
	}

	var footer []string
	if line := m.sync.View(); line != "" {
		footer = append(footer, line)
	}
	if m.status != "" {
		footer = append(footer, m.status)
	}
	if m.errMsg != "" {
		footer = append(footer, errorStyle.Render(m.errMsg))
	}
	if len(footer) > 0 {
		page += "\n\n  " + strings.Join(footer, "\n  ")
	}

	return appStyle.Render(page)
}
