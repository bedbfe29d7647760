/*
Package healthview reads the most recent biometric samples from a health
records store and keeps a formatted snapshot for display.

The snapshot maps a display name such as "Heart Rate" to a formatted value.
Quantity metrics use two decimals in a fixed unit per metric, the ECG keys
carry the latest recording's classification and average heart rate, and the
sleep key carries total asleep time as "Xh Ym". A metric that has no sample,
or whose query fails, reads "N/A".

Access is requested once for every metric. When it is denied nothing is
queried and the snapshot stays empty. Without a health source the client
serves a fixed offline snapshot.

Example:

	c := healthview.NewClient(healthview.Options{
		Source:   src,
		Identity: "phone-1",
	})
	defer c.Close()

	done, err := c.Start(ctx)
	if err != nil {
		// access denied
	}
	<-done

	fmt.Println(c.Snapshot()["Heart Rate"]) // 72.00

Output of Dump():

	{
	    "Identity": "phone-1",
	    "Snapshot": {
	        "Heart Rate": "72.00",
	        "Total Sleep Time": "7h 12m",
	        ...
	    },
	    "Started": 1760745600,
	    "State": "authorized"
	}

Source Configuration:

	HEALTHVIEW_SOURCE=sqlite            # offline, sqlite, file or memory
	HEALTHVIEW_DB_PATH="/data/health.db"
	HEALTHVIEW_EXPORT_PATH="./export.yaml"
	HEALTHVIEW_IDENTITY="phone-1"

The SQLite export is opened read-only. The YAML export is loaded into memory
once at startup.
*/
package healthview
