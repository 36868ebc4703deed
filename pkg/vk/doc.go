// Package vk is the photo source client. It resolves a user handle to a
// numeric owner ID with users.get and lists album photos with photos.get,
// always requesting every size variant and extended metadata.
//
//	client := vk.NewClient(cfg.VK, cfg.HTTP.Timeout, log)
//	ownerID, err := client.ResolveOwnerID(ctx, "durov")
//	photos, err := client.FetchPhotos(ctx, ownerID, "wall")
//
// There is no pagination: photos.get returns at most one page of items and
// anything beyond the service's per-call cap is not fetched.
package vk
