package domain

// MergeProps returns a new map holding dst with patch merged in:
//   - nested maps present on both sides are merged recursively
//   - slices and scalars in patch replace the existing value
//   - a nil value in patch removes the key
//
// Neither argument is modified.
func MergeProps(dst, patch map[string]any) map[string]any {
	out := CloneMap(dst)
	if out == nil {
		out = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		src, srcIsMap := v.(map[string]any)
		cur, curIsMap := out[k].(map[string]any)
		if srcIsMap && curIsMap {
			out[k] = MergeProps(cur, src)
			continue
		}
		out[k] = CloneValue(v)
	}
	return out
}
