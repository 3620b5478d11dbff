package proxy

import "go.wakeproxy.dev/wakeproxy/pkg/backend"

// buildStatusView implements spec §4.5's status-phase merge:
//
//   - backend online and reachable: start from its own status, but
//     overwrite description with the online MOTD.
//   - backend online but unreachable for a status fetch: use the online
//     template verbatim.
//   - backend offline: use the offline template verbatim.
//
// version.protocol is always overwritten with the client's advertised
// protocol, and favicon is set only if an icon was loaded.
func (p *Proxy) buildStatusView(hs *handshake) *backend.StatusView {
	var view *backend.StatusView

	if p.probe.IsOnline() {
		if fetched := p.probe.FetchStatus(); fetched != nil {
			fetched.Description = backend.DescriptionText(p.cfg.Motd.Online)
			view = fetched
		} else {
			view = p.templateView(p.cfg.Motd.Online)
		}
	} else {
		view = p.templateView(p.cfg.Motd.Offline)
	}

	view.Version.Protocol = hs.ProtocolVersion
	if icon := p.icon.DataURL(); icon != "" {
		view.Favicon = icon
	}
	return view
}

func (p *Proxy) templateView(motd string) *backend.StatusView {
	return &backend.StatusView{
		Version:     backend.VersionInfo{Name: p.cfg.VersionName},
		Players:     backend.PlayersInfo{Max: p.cfg.MaxPlayers, Online: 0},
		Description: backend.DescriptionText(motd),
	}
}
