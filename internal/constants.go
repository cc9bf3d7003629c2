/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	Version         = "0.3.0"
	UserAgent       = "fitebot/" + Version + " (+https://github.com/mikeb26/fitebot)"
	DefaultS3Bucket = "fitebot-prod-state"
)
