package featured

// Resolve decides whether item should receive a default image from the pool.
// An existing thumbnail always wins. Every other failed precondition, an
// unsupported content type, a disabled content type or an empty pool, yields
// NoOverride. Each call is an independent uniform draw; callers that need
// stable answers within a request memoize the result themselves.
func Resolve(item ContentItem, settings Settings, pick Picker) ResolutionResult {
	if item.HasThumbnail() {
		return NoOverride()
	}
	if item.ThumbnailUnsupported {
		return NoOverride()
	}
	if !settings.ContentTypes.Has(item.ContentType) {
		return NoOverride()
	}
	if len(settings.Pool) == 0 {
		return NoOverride()
	}

	if pick == nil {
		pick = DefaultPicker
	}
	idx := pick(len(settings.Pool))
	if idx < 0 || idx >= len(settings.Pool) {
		return NoOverride()
	}
	return OverrideWith(settings.Pool[idx])
}
