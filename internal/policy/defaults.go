package policy

import "attachapi/internal/config"

const mb = 1 << 20

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

var imageMIMETypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ReviewPolicy limits review submissions to five images of at most 5 MB each.
func ReviewPolicy() Policy {
	return Policy{
		MaxCount:          5,
		MaxSizePerFile:    5 * mb,
		AllowedExtensions: imageExtensions,
		AllowedMIMETypes:  imageMIMETypes,
	}
}

// ApplicationPolicy limits service applications to five documents or images,
// 10 MB each and 25 MB in total.
func ApplicationPolicy() Policy {
	return Policy{
		MaxCount:       5,
		MaxSizePerFile: 10 * mb,
		MaxTotalSize:   25 * mb,
		AllowedExtensions: append([]string{
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".txt", ".zip",
		}, imageExtensions...),
	}
}

// WithOverrides returns p with every non-zero field of cfg applied on top. Overriding the
// extensions also replaces the MIME allow-list, emptying it when cfg names no MIME types,
// so a newly allowed extension is never rejected by the default MIME list.
func (p Policy) WithOverrides(cfg config.PolicyConfig) Policy {
	if cfg.MaxCount > 0 {
		p.MaxCount = cfg.MaxCount
	}
	if cfg.MaxSizePerFile > 0 {
		p.MaxSizePerFile = cfg.MaxSizePerFile
	}
	if cfg.MaxTotalSize > 0 {
		p.MaxTotalSize = cfg.MaxTotalSize
	}
	if len(cfg.AllowedExtensions) > 0 {
		p.AllowedExtensions = cfg.AllowedExtensions
		p.AllowedMIMETypes = cfg.AllowedMIMETypes
	}
	return p
}
