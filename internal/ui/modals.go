package ui

import "slices"

type ModalName string

const (
	LoginModal        ModalName = "loginModal"
	RegisterModal     ModalName = "registerModal"
	JobModal          ModalName = "jobModal"
	ProposalModal     ModalName = "proposalModal"
	JobProposalsModal ModalName = "jobProposalsModal"
	PaymentModal      ModalName = "paymentModal"
)

var ModalNames = []ModalName{LoginModal, RegisterModal, JobModal, ProposalModal, JobProposalsModal, PaymentModal}

func ParseModal(s string) (ModalName, bool) {
	for _, n := range ModalNames {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Modal is an open overlay. Args carries what populates it, e.g. the job id
// for jobModal.
type Modal struct {
	Name ModalName         `json:"name"`
	Args map[string]string `json:"args,omitempty"`
}

// Modals is the stack of open overlays; the last one is focused.
type Modals struct {
	Open []Modal `json:"open"`
}

// Show opens name, or moves it to the top with new args when already open.
func (m *Modals) Show(name ModalName, args map[string]string) {
	m.Hide(name)
	m.Open = append(m.Open, Modal{Name: name, Args: args})
}

func (m *Modals) Hide(name ModalName) {
	m.Open = slices.DeleteFunc(m.Open, func(x Modal) bool { return x.Name == name })
}

func (m *Modals) HideAll() {
	m.Open = nil
}

func (m *Modals) IsOpen(name ModalName) bool {
	return slices.ContainsFunc(m.Open, func(x Modal) bool { return x.Name == name })
}

func (m *Modals) Get(name ModalName) (Modal, bool) {
	for _, x := range m.Open {
		if x.Name == name {
			return x, true
		}
	}
	return Modal{}, false
}

func (m *Modals) Focused() (Modal, bool) {
	if len(m.Open) == 0 {
		return Modal{}, false
	}
	return m.Open[len(m.Open)-1], true
}

// BackdropClick closes the focused modal only.
func (m *Modals) BackdropClick() {
	if f, ok := m.Focused(); ok {
		m.Hide(f.Name)
	}
}

// ScrollLocked is true while any modal is open.
func (m *Modals) ScrollLocked() bool {
	return len(m.Open) > 0
}

// State is everything the shell shows outside the main region.
type State struct {
	Alerts Alerts `json:"alerts"`
	Modals Modals `json:"modals"`
}
