/*
Package token implements the bridged token contract deployed by the
Omnitoken Factory.

It is a NEP-17 compatible contract extended with bridged minting: every
bridge account carries a single mutable minting record capping its
outstanding minted amount, and the token's administrative owner may register
one lockbox contract that mints and burns without limits against custodied
base assets. Burns reduce a bridge's outstanding exposure; there is no
separate burn budget.

The factory constructs the token under its own temporary control, provisions
minting records and the lockbox while it is the owner and explicitly hands
ownership over as the last step of every deployment workflow.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package token
