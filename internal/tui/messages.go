package tui

import (
	"github.com/sevenoy/GeminiMeds/models"
)

type loadedMsg struct {
	rows []medicationRow
	err  error
}

type reloadMsg struct {
	topic models.Topic
}

type refreshTickMsg struct{}

type syncDoneMsg struct {
	report models.SyncReport
	err    error
}

type medicationSavedMsg struct {
	medication models.Medication
	err        error
}

type medicationDeletedMsg struct {
	err error
}

type intakeLoggedMsg struct {
	log models.MedicationLog
	err error
}

type cloudSavedMsg struct {
	result models.SaveResult
}

type cloudLoadedMsg struct {
	payload models.SnapshotPayload
	err     error
}

type snapshotAppliedMsg struct {
	err error
}

type signedInMsg struct {
	err error
}

type signedOutMsg struct {
	err error
}
