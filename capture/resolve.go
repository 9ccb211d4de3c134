package capture

// Resolve merges a page's capture options with the shared defaults into
// one ready-to-execute configuration. Precedence, lowest first: hard
// fallback, shared defaults, per-page options. The merge is shallow and
// per-field; it is an explicit ordered function rather than struct
// embedding so the precedence stays visible and testable.
//
// Width and height treat 0 as unset at every tier, so a page wanting
// the default simply omits the field (or sets it to 0, same thing).
func Resolve(page, defaults Options) (Resolved, error) {
	format, err := FormatForPath(page.Output)
	if err != nil {
		return Resolved{}, err
	}

	r := Resolved{
		Width:  pickDim(page.Width, defaults.Width, FallbackWidth),
		Height: pickDim(page.Height, defaults.Height, FallbackHeight),
		Output: page.Output,
		Format: format,
	}

	nav := NavOptions{WaitUntil: WaitNetworkIdle}
	nav = overlayNav(nav, defaults.Navigation)
	nav = overlayNav(nav, page.Navigation)
	r.Navigation = nav

	img := ImageOptions{}
	img = overlayImage(img, defaults.Image)
	img = overlayImage(img, page.Image)
	if img.FullPage != nil {
		r.FullPage = *img.FullPage
	}
	if img.Quality != nil {
		r.Quality = *img.Quality
	}

	return r, nil
}

func pickDim(page, def, fallback int) int {
	if page != 0 {
		return page
	}
	if def != 0 {
		return def
	}
	return fallback
}

func overlayNav(base, over NavOptions) NavOptions {
	if over.WaitUntil != "" {
		base.WaitUntil = over.WaitUntil
	}
	if over.Timeout != 0 {
		base.Timeout = over.Timeout
	}
	return base
}

func overlayImage(base, over ImageOptions) ImageOptions {
	if over.FullPage != nil {
		base.FullPage = over.FullPage
	}
	if over.Quality != nil {
		base.Quality = over.Quality
	}
	return base
}
