// Package jobs defines the dataset download jobs and the built-in job lists.
package jobs

import (
	"fmt"
	"path/filepath"
)

// Job is one dataset's fetch task. Jobs are immutable values built at startup.
type Job struct {
	Source      string // Kaggle dataset slug or URL-shaped locator
	Destination string // Directory (kaggle) or file path (direct)
	Name        string // Human-readable display name
}

// Validate checks that every field is set.
func (j Job) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("job name is required (source %q)", j.Source)
	}
	if j.Source == "" {
		return fmt.Errorf("job %s: source is required", j.Name)
	}
	if j.Destination == "" {
		return fmt.Errorf("job %s: destination is required", j.Name)
	}
	return nil
}

func (j Job) String() string {
	return fmt.Sprintf("%s (%s -> %s)", j.Name, j.Source, j.Destination)
}

// KaggleCatalog returns the datasets fetched through the kaggle CLI.
// Destinations are directories; the tool unzips archives into them.
func KaggleCatalog() []Job {
	return []Job{
		{
			Source:      "nih-chest-xrays/data",
			Destination: "data/raw/NIH-ChestX-ray14",
			Name:        "NIH ChestX-ray14",
		},
		{
			Source:      "tanvishdesai/mimic-cxr",
			Destination: "data/raw/MIMIC-CXR",
			Name:        "MIMIC-CXR",
		},
		{
			Source:      "ashery/chexpert",
			Destination: "data/raw/CheXpert",
			Name:        "CheXpert",
		},
	}
}

// DirectCatalog returns the archives fetched by direct transfer.
// Destinations are file paths. One entry per supported source kind.
func DirectCatalog() []Job {
	return []Job{
		{
			Source:      "https://nihcc.box.com/shared/static/vfk49d74nhbxq3nqjg0900w5nvkorp5c.gz",
			Destination: "data/raw/NIH-ChestX-ray14/images_001.tar.gz",
			Name:        "NIH ChestX-ray14",
		},
		{
			Source:      "s3://mimic-cxr-jpg-2.1.0.physionet.org/mimic-cxr-2.0.0-metadata.csv.gz",
			Destination: "data/raw/MIMIC-CXR/mimic-cxr-2.0.0-metadata.csv.gz",
			Name:        "MIMIC-CXR",
		},
		{
			Source:      "az://aimistanforddatasets01/chexpertchestxrays-u20210408/CheXpert-v1.0-small.zip",
			Destination: "data/raw/CheXpert/CheXpert-v1.0-small.zip",
			Name:        "CheXpert",
		},
	}
}

// Rebase returns a copy of list with relative destinations placed under root.
// Absolute destinations and an empty root leave entries unchanged.
func Rebase(list []Job, root string) []Job {
	out := make([]Job, len(list))
	for i, j := range list {
		if root != "" && !filepath.IsAbs(j.Destination) {
			j.Destination = filepath.Join(root, j.Destination)
		}
		out[i] = j
	}
	return out
}

// ValidateAll validates every job in list.
func ValidateAll(list []Job) error {
	for _, j := range list {
		if err := j.Validate(); err != nil {
			return err
		}
	}
	return nil
}
