package main

import (
	"fmt"
	"io"

	persistlog "voxelcraft.ai/barrierview/internal/persistence/log"
)

func dumpTicks(out io.Writer, dataDir string) error {
	files, err := persistlog.Files(dataDir)
	if err != nil {
		return err
	}
	for _, path := range files {
		ticks, err := persistlog.ReadTicks(path)
		if err != nil {
			return err
		}
		for _, e := range ticks {
			fmt.Fprintf(out, "tick=%d time=%s", e.Tick, e.Time.Format("15:04:05.000"))
			for _, w := range e.Worlds {
				fmt.Fprintf(out, " %s[viewers=%d dispatched=%d disabled=%d no_pos=%d failed=%d]",
					w.World, w.Viewers, w.Dispatched, w.Disabled, w.NoPosition, w.Failed)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
