package views

import (
	"fmt"

	"github.com/egabank/ega/internal/cache"
	"github.com/egabank/ega/internal/remotesync"
	"github.com/egabank/ega/internal/store"
	"github.com/pterm/pterm"
)

type SystemInfoItem struct {
	ConfigPath      string
	DBPath          string
	DBExists        bool // true = Found, false = Not Found
	RemoteURL       string
	RemoteReachable error
	LoadedFrom      store.Origin
	PendingSync     int
	Tombstones      int
	DefaultCurrency string
	Timezone        string
	AppDataDir      string
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}

	remote := pterm.Gray("Disabled (local only)")
	if data.RemoteURL != "" {
		if data.RemoteReachable == nil {
			remote = pterm.Green(data.RemoteURL)
		} else {
			remote = pterm.Red(fmt.Sprintf("%s (%v)", data.RemoteURL, data.RemoteReachable))
		}
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Cache Path", data.DBPath},
		{"Cache Status", dbStatus},
		{"Remote API", remote},
		{"Loaded From", string(data.LoadedFrom)},
		{"Pending Sync", fmt.Sprint(data.PendingSync)},
		{"Pending Deletes", fmt.Sprint(data.Tombstones)},
		{"Default Currency", data.DefaultCurrency},
		{"Timezone", data.Timezone},
		{"AppData Directory", data.AppDataDir},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}

func RenderResyncReport(r remotesync.Report, err error) {
	tableData := pterm.TableData{
		{"Deletes", fmt.Sprint(r.Deletes)},
		{"Clients", fmt.Sprint(r.Clients)},
		{"Accounts", fmt.Sprint(r.Accounts)},
		{"Transactions", fmt.Sprint(r.Transactions)},
	}
	pterm.DefaultTable.WithData(tableData).Render()

	switch {
	case r.Total() == 0:
		pterm.Success.Println("Nothing to synchronize")
	case err == nil:
		pterm.Success.Printf("%d changes pushed to the remote API\n", r.Total())
	default:
		pterm.Warning.Printf("%d of %d changes failed: %v\n", r.Failed, r.Total(), err)
	}
}

func RenderSnapshots(infos []cache.SnapshotInfo) error {
	if len(infos) == 0 {
		pterm.Info.Println("The local cache is empty")
		return nil
	}

	tableData := pterm.TableData{{"Collection", "Items", "Size", "Saved At"}}
	for _, info := range infos {
		tableData = append(tableData, []string{
			info.Key,
			fmt.Sprint(info.Items),
			fmt.Sprintf("%d B", info.Bytes),
			info.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
