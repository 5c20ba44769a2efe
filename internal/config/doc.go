// Package config provides configuration parsing for shadowtree tools.
//
// The configuration is stored in shadowtree.json. This package handles
// loading, saving, and validating configuration. SHADOWTREE_LOG_LEVEL and
// SHADOWTREE_INSPECTOR_ADDR override the corresponding file settings.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "inspector": {
//	    "enabled": true,
//	    "addr": "localhost:9400"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "shadowtree"
//	  },
//	  "tracing": {
//	    "tracerName": "shadowtree"
//	  },
//	  "archive": {
//	    "dir": "snapshots",
//	    "format": "json",
//	    "s3": {
//	      "bucket": "my-trees",
//	      "prefix": "prod/",
//	      "region": "eu-west-1"
//	    }
//	  },
//	  "tree": {
//	    "rootTag": 1,
//	    "mountSignaling": true
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.NewLogger(os.Stderr)
package config
