/*
Package lockbox implements the asset-custody companion contract deployed by
the Omnitoken Factory.

A lockbox holds a base asset one-to-one against an issued token: depositing
the base asset (the native gas asset or a configured NEP-17 contract,
mutually exclusive modes fixed at deployment) mints the token to the
depositor, withdrawing burns the token and releases the base asset. The
lockbox itself is non-administrable pure logic; a token recognizes at most
one lockbox at a time via its own registration slot.

# Contract notifications

Deposit notification.

	Deposit:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

Withdraw notification.

	Withdraw:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package lockbox
