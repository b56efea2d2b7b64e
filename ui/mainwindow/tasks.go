package mainwindow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"lanfinitas-studio/internal/apitypes"
)

// setupTasksTab builds the delegation console and wallet view backed by the
// demo service.
func (mw *MainWindow) setupTasksTab() fyne.CanvasObject {
	mw.balanceLabel = widget.NewLabel("Balance: -")

	mw.delegationList = widget.NewList(
		func() int {
			return len(mw.delegations)
		},
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil,
				container.NewHBox(
					widget.NewButton("Accept", nil),
					widget.NewButton("Complete", nil),
					widget.NewButton("Revoke", nil),
				),
				widget.NewLabel("delegation"))
		},
		func(row widget.ListItemID, obj fyne.CanvasObject) {
			if row < 0 || row >= len(mw.delegations) {
				return
			}
			d := mw.delegations[row]
			box := obj.(*fyne.Container)
			label := box.Objects[0].(*widget.Label)
			buttons := box.Objects[1].(*fyne.Container)
			accept := buttons.Objects[0].(*widget.Button)
			complete := buttons.Objects[1].(*widget.Button)
			revoke := buttons.Objects[2].(*widget.Button)

			label.SetText(fmt.Sprintf("%s [%s] %.2f cr", d.Title, d.Status, d.Reward))

			accept.OnTapped = func() {
				mw.setDelegationStatus(d.ID, apitypes.DelegationAccepted)
			}
			complete.OnTapped = func() {
				mw.setDelegationStatus(d.ID, apitypes.DelegationCompleted)
			}
			revoke.OnTapped = func() {
				mw.onRevokeDelegation(d)
			}

			// Terminal states take no further transitions.
			terminal := d.Status == apitypes.DelegationCompleted ||
				d.Status == apitypes.DelegationRevoked
			setEnabled(accept, !terminal && d.Status == apitypes.DelegationPending)
			setEnabled(complete, !terminal)
			setEnabled(revoke, !terminal)
		},
	)

	toolbar := container.NewHBox(
		widget.NewButton("Refresh", mw.onRefreshTasks),
		widget.NewButton("New Delegation...", mw.onNewDelegation),
		widget.NewSeparator(),
		mw.balanceLabel,
	)

	return container.NewBorder(toolbar, nil, nil, nil, mw.delegationList)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (mw *MainWindow) onRefreshTasks() {
	if !mw.client.TokenValid() {
		dialog.ShowInformation("Not Signed In",
			"Sign in to the demo backend to manage delegations.", mw.Window)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := mw.client.Delegations(ctx)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.delegations = list
	mw.delegationList.Refresh()

	balance, err := mw.client.Balance(ctx)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.balanceLabel.SetText(fmt.Sprintf("Balance: %.2f %s", balance.Balance, balance.Currency))
}

func (mw *MainWindow) onNewDelegation() {
	if !mw.client.TokenValid() {
		dialog.ShowInformation("Not Signed In",
			"Sign in to the demo backend first.", mw.Window)
		return
	}

	title := widget.NewEntry()
	description := widget.NewMultiLineEntry()
	reward := widget.NewEntry()
	reward.SetText("0")
	items := []*widget.FormItem{
		widget.NewFormItem("Title", title),
		widget.NewFormItem("Description", description),
		widget.NewFormItem("Reward", reward),
	}

	dialog.ShowForm("New Delegation", "Create", "Cancel", items, func(confirmed bool) {
		if !confirmed || title.Text == "" {
			return
		}
		amount, err := strconv.ParseFloat(reward.Text, 64)
		if err != nil {
			dialog.ShowError(fmt.Errorf("invalid reward %q: %w", reward.Text, err), mw.Window)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := mw.client.CreateDelegation(ctx, title.Text, description.Text, amount); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.onRefreshTasks()
	}, mw.Window)
}

// onRevokeDelegation confirms before the irreversible status change.
func (mw *MainWindow) onRevokeDelegation(d apitypes.Delegation) {
	dialog.NewConfirm("Revoke Delegation",
		fmt.Sprintf("Revoke %q? The assignee loses the task and no reward is paid.", d.Title),
		func(confirmed bool) {
			if confirmed {
				mw.setDelegationStatus(d.ID, apitypes.DelegationRevoked)
			}
		}, mw.Window).Show()
}

func (mw *MainWindow) setDelegationStatus(id, status string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := mw.client.UpdateDelegationStatus(ctx, id, status); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.onRefreshTasks()
}
